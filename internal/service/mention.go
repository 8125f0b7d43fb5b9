package service

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxCommentLength 评论最大字符数（按 rune 计）
	MaxCommentLength = 1000
	// MaxSnippetLength 通知摘要最大字符数
	MaxSnippetLength = 50
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ParseMentions 提取文本中的 @用户名，按首次出现顺序去重（不区分大小写），保留首次出现时的拼写
func ParseMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	usernames := make([]string, 0, len(matches))
	for _, m := range matches {
		key := strings.ToLower(m[1])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		usernames = append(usernames, m[1])
	}
	return usernames
}

// Snippet 截取通知摘要，超长时以 ... 结尾且总长不超过 MaxSnippetLength
func Snippet(text string) string {
	if utf8.RuneCountInString(text) <= MaxSnippetLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxSnippetLength-3]) + "..."
}
