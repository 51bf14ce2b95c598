package domain

import "errors"

var (
	ErrDuplicateUsername = errors.New("username already taken")

	// 登录失败统一一个错误，不区分“用户不存在”和“密码错误”
	ErrInvalidCredentials = errors.New("invalid username or password")

	// 任务不存在或不属于当前用户，对外不做区分
	ErrNotFound = errors.New("not found")
)

// ValidationError 表单校验错误，msg 直接回显给用户
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error { return &ValidationError{Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
