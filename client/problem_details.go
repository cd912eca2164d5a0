package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProblemDetails 服务端错误响应体
//
// 兼容 RFC7807（title/detail/status）与常见的 {"error": "..."} / {"message": "..."} 形式。
type ProblemDetails struct {
	// RFC7807 标准字段
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// 非标准字段
	ErrorText string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Error 实现 error 接口
func (p *ProblemDetails) Error() string {
	return p.Summary()
}

// Summary 返回最有信息量的一段描述
func (p *ProblemDetails) Summary() string {
	switch {
	case p.Title != "" && p.Detail != "":
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	case p.Detail != "":
		return p.Detail
	case p.ErrorText != "":
		return p.ErrorText
	case p.Message != "":
		return p.Message
	default:
		return p.Title
	}
}

// ParseProblemDetails 从响应体解析错误描述，无法识别时返回 false
func ParseProblemDetails(body []byte) (*ProblemDetails, bool) {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}

	var problem ProblemDetails
	if err := json.Unmarshal([]byte(trimmed), &problem); err != nil {
		return nil, false
	}
	if problem.Summary() == "" {
		return nil, false
	}
	return &problem, true
}
