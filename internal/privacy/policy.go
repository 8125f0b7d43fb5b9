// Package privacy 根据双方关系与目标用户的隐私设置计算可执行的社交操作
package privacy

import "vida-social/internal/model"

// Input 一次权限判定所需的全部事实，由调用方在同一读取视图中查出
type Input struct {
	ActorID  int64
	TargetID int64
	Target   model.PrivacySettings
	// Following 为 true 表示 Actor 已关注 Target
	Following bool
	// Blocked 为 true 表示双方任一方向存在拉黑
	Blocked bool
}

// Decision 判定结果
type Decision struct {
	AllowComment     bool
	AllowMention     bool
	AllowFollow      bool
	RequiresApproval bool
}

// RequiresApproval 关注该用户是否需要审批。
// 显式设置优先，未设置时私密账号需要审批
func RequiresApproval(s model.PrivacySettings) bool {
	if s.RequireFollowApproval != nil {
		return *s.RequireFollowApproval
	}
	return !s.IsPublic
}

// Evaluate 计算 Actor 对 Target 的权限，纯函数
func Evaluate(in Input) Decision {
	if in.Blocked {
		return Decision{}
	}

	self := in.ActorID == in.TargetID
	d := Decision{
		AllowFollow:      !self,
		RequiresApproval: !self && RequiresApproval(in.Target),
	}

	switch in.Target.CommentPermission {
	case model.CommentNoOne:
		d.AllowComment = self
	case model.CommentFollowers:
		d.AllowComment = self || in.Following
	default:
		d.AllowComment = true
	}

	switch in.Target.MentionPermission {
	case model.MentionFollowers:
		d.AllowMention = self || in.Following
	default:
		d.AllowMention = true
	}

	return d
}
