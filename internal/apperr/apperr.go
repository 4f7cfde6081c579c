package apperr

import (
	"errors"
	"fmt"
)

// Kind 业务错误类别
type Kind int

const (
	KindNotFound         Kind = iota // 实体不存在
	KindNotAuthorized                // 调用者无权执行该操作
	KindInvalidState                 // 当前状态不允许该转换
	KindValidation                   // 输入参数非法
	KindSignatureInvalid             // 签名校验失败
	KindUpstream                     // 链上读取失败
)

// Error 业务错误，携带类别供handler层映射HTTP状态码
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NotFound 实体不存在
func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

// NotAuthorized 无权操作
func NotAuthorized(format string, args ...interface{}) *Error {
	return newError(KindNotAuthorized, format, args...)
}

// InvalidState 状态不允许
func InvalidState(format string, args ...interface{}) *Error {
	return newError(KindInvalidState, format, args...)
}

// Validation 参数非法
func Validation(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

// SignatureInvalid 签名校验失败
func SignatureInvalid(format string, args ...interface{}) *Error {
	return newError(KindSignatureInvalid, format, args...)
}

// Upstream 链上读取失败
func Upstream(format string, args ...interface{}) *Error {
	return newError(KindUpstream, format, args...)
}

// KindOf 提取错误类别；非业务错误返回false
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is 判断错误是否为指定类别的业务错误
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
