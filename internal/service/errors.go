package service

import "github.com/pkg/errors"

// 错误类别，handler 据此映射 HTTP 状态码
var (
	ErrValidation      = errors.New("参数校验失败")
	ErrUnauthenticated = errors.New("未登录")
	ErrForbidden       = errors.New("没有权限")
	ErrNotFound        = errors.New("资源不存在")
)

// Error 带类别的业务错误，errors.Is(err, ErrForbidden) 等可匹配其类别
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Is(target error) bool {
	return target == e.kind
}

var (
	ErrUserNotFound              = newError(ErrNotFound, "用户不存在")
	ErrCannotFollowSelf          = newError(ErrForbidden, "不能关注自己")
	ErrBlocked                   = newError(ErrForbidden, "你们之间存在拉黑关系")
	ErrFollowRequestNotFound     = newError(ErrNotFound, "关注请求不存在或已处理")
	ErrFollowRequestNoPermission = newError(ErrForbidden, "没有权限处理该关注请求")
	ErrCannotBlockSelf           = newError(ErrForbidden, "不能拉黑自己")
	ErrInvalidPrivacy            = newError(ErrValidation, "隐私设置取值无效")

	ErrVideoNotFound       = newError(ErrNotFound, "视频不存在")
	ErrCommentNotFound     = newError(ErrNotFound, "评论不存在")
	ErrCommentNoPermission = newError(ErrForbidden, "没有权限操作该评论")
	ErrCommentEmpty        = newError(ErrValidation, "评论内容不能为空")
	ErrCommentTooLong      = newError(ErrValidation, "评论内容不能超过1000个字符")
	ErrCommentRestricted   = newError(ErrForbidden, "作者已限制评论")
	ErrParentNotFound      = newError(ErrNotFound, "父评论不存在")
	ErrParentVideoMismatch = newError(ErrValidation, "父评论不属于该视频")
	ErrParentDeleted       = newError(ErrValidation, "不能回复已删除的评论")
)
