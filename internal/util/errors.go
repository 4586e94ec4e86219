package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("resource not found")
	ErrNotTeamMember      = errors.New("not a member of this team")
	ErrUnsupportedVariant = errors.New("unsupported question variant")
	ErrInvalidScore       = errors.New("score out of range")
	ErrAlreadyGraded      = errors.New("submission already graded")
	ErrSessionExpired     = errors.New("attendance session expired")
)

// ValidationError 定位到具体的 section/题目下标和缺失字段，整次写入已回滚
type ValidationError struct {
	Section int    `json:"section"`
	Index   int    `json:"index"`
	Type    string `json:"type"`
	Field   string `json:"field"`
	Reason  string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("section %d question %d (%s): %s", e.Section, e.Index, e.Type, e.Reason)
	}
	return fmt.Sprintf("section %d question %d (%s): missing field %q", e.Section, e.Index, e.Type, e.Field)
}
