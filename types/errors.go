package types

import (
	"errors"
	"fmt"
)

// ErrorCode 错误码
type ErrorCode string

// 错误码常量
const (
	// 交易构建
	CodeInvalidAmount         ErrorCode = "INVALID_AMOUNT"
	CodeEmptyTransferSet      ErrorCode = "EMPTY_TRANSFER_SET"
	CodeInvalidArgument       ErrorCode = "INVALID_ARGUMENT"
	CodeIncompleteTransaction ErrorCode = "INCOMPLETE_TRANSACTION"

	// Gas Station
	CodeMalformedGasResponse ErrorCode = "MALFORMED_GAS_RESPONSE"
	CodeGasRequestFailed     ErrorCode = "GAS_REQUEST_FAILED"
	CodeIncompleteGasData    ErrorCode = "INCOMPLETE_GAS_DATA"

	// 签名与提交
	CodePrematureSign    ErrorCode = "PREMATURE_SIGN"
	CodeStaleSignature   ErrorCode = "STALE_SIGNATURE"
	CodeSubmissionFailed ErrorCode = "SUBMISSION_FAILED"

	// 传输层
	CodeNetworkError ErrorCode = "NETWORK_ERROR"
	CodeRPCError     ErrorCode = "RPC_ERROR"
	CodeNotSupported ErrorCode = "NOT_SUPPORTED"
)

// Error SDK 统一错误类型
//
// Status / Body 只在 GasRequestFailed、SubmissionFailed 等 HTTP 错误上填充。
// errors.Is 按 Code 匹配，因此可以直接与下方的哨兵错误比较：
//
//	if errors.Is(err, types.ErrPrematureSign) { ... }
type Error struct {
	Code    ErrorCode
	Message string
	Status  int
	Body    string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status=%d, body=%s)", msg, e.Status, e.Body)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 按错误码比较
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// 哨兵错误，仅用于 errors.Is 比较
var (
	ErrInvalidAmount         = &Error{Code: CodeInvalidAmount, Message: "amount must be positive"}
	ErrEmptyTransferSet      = &Error{Code: CodeEmptyTransferSet, Message: "transfer requires at least one object"}
	ErrInvalidArgument       = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
	ErrIncompleteTransaction = &Error{Code: CodeIncompleteTransaction, Message: "transaction is incomplete"}
	ErrMalformedGasResponse  = &Error{Code: CodeMalformedGasResponse, Message: "malformed gas response"}
	ErrGasRequestFailed      = &Error{Code: CodeGasRequestFailed, Message: "gas request failed"}
	ErrIncompleteGasData     = &Error{Code: CodeIncompleteGasData, Message: "gas data is incomplete"}
	ErrPrematureSign         = &Error{Code: CodePrematureSign, Message: "transaction signed before gas merge"}
	ErrStaleSignature        = &Error{Code: CodeStaleSignature, Message: "draft changed after signing"}
	ErrSubmissionFailed      = &Error{Code: CodeSubmissionFailed, Message: "submission failed"}
	ErrNetwork               = &Error{Code: CodeNetworkError, Message: "network error"}
	ErrRPC                   = &Error{Code: CodeRPCError, Message: "rpc error"}
	ErrNotSupported          = &Error{Code: CodeNotSupported, Message: "operation not supported"}
)

// NewError 创建错误
func NewError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewInvalidAmountError 创建金额非法错误
func NewInvalidAmountError(index int, amount uint64) *Error {
	return NewError(CodeInvalidAmount, "amount at index %d must be positive, got %d", index, amount)
}

// NewIncompleteTransactionError 创建交易不完整错误
func NewIncompleteTransactionError(missing []string) *Error {
	return NewError(CodeIncompleteTransaction, "missing fields: %v", missing)
}

// NewIncompleteGasDataError 创建 GasData 缺字段错误
func NewIncompleteGasDataError(missing []string) *Error {
	return NewError(CodeIncompleteGasData, "gas data missing fields: %v", missing)
}

// NewMalformedGasResponseError 创建 Gas 响应格式错误
func NewMalformedGasResponseError(format string, args ...interface{}) *Error {
	return NewError(CodeMalformedGasResponse, format, args...)
}

// NewGasRequestFailedError 创建 Gas 请求失败错误（非 2xx）
func NewGasRequestFailedError(status int, body string) *Error {
	return &Error{
		Code:    CodeGasRequestFailed,
		Message: "gas station rejected request",
		Status:  status,
		Body:    body,
	}
}

// NewSubmissionFailedError 创建提交失败错误（非 2xx）
func NewSubmissionFailedError(status int, body string) *Error {
	return &Error{
		Code:    CodeSubmissionFailed,
		Message: "sponsor rejected submission",
		Status:  status,
		Body:    body,
	}
}

// NewNetworkError 创建网络错误
func NewNetworkError(err error) *Error {
	return &Error{
		Code:    CodeNetworkError,
		Message: "network error",
		Cause:   err,
	}
}

// NewRPCError 创建 JSON-RPC 错误
func NewRPCError(method string, code int, message string) *Error {
	return NewError(CodeRPCError, "%s: code=%d, message=%s", method, code, message)
}

// NewNotSupportedError 创建不支持的操作错误
func NewNotSupportedError(operation string) *Error {
	return NewError(CodeNotSupported, "operation not supported: %s", operation)
}

// IsError 检查错误是否为 SDK Error（会沿 Unwrap 链查找）
func IsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
