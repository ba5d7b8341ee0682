package cj

import (
	"errors"
	"fmt"
)

// ErrNoCredential 未配置 API Key
var ErrNoCredential = errors.New("cj: 未配置 API Key")

// TransportError 供应商不可达或响应无法解析（没有可用的 envelope）
type TransportError struct {
	Endpoint   string
	StatusCode int // 0 表示没有拿到 HTTP 响应
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("cj: 请求 %s 失败 (HTTP %d): %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("cj: 请求 %s 失败: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RejectedError 供应商返回了 envelope，但 code 不是成功
type RejectedError struct {
	Endpoint string
	Code     int
	Message  string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("cj: %s 被拒绝 (code=%d): %s", e.Endpoint, e.Code, e.Message)
}

// AuthError 鉴权失败
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cj: 鉴权失败: %s: %v", e.Reason, e.Err)
	}
	return "cj: 鉴权失败: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }
