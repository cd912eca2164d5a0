package services

// Config 业务服务配置
//
// 所有字段均为可选，未提供时使用 DefaultConfig 中的约定值。
type Config struct {
	// GasPath sponsor 申请 gas 的路径
	GasPath string

	// SubmitPath sponsor 代为提交交易的路径
	SubmitPath string

	// RequestType 直接提交到节点时的执行等待方式
	// "WaitForEffectsCert" | "WaitForLocalExecution"
	RequestType string

	// HideEffects 节点响应不携带 effects
	HideEffects bool
}

// 默认值
const (
	DefaultGasPath     = "/tx/gas"
	DefaultSubmitPath  = "/tx/submit"
	DefaultRequestType = "WaitForLocalExecution"
)

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		GasPath:     DefaultGasPath,
		SubmitPath:  DefaultSubmitPath,
		RequestType: DefaultRequestType,
	}
}

// WithDefaults 返回补齐默认值后的副本
func (c *Config) WithDefaults() *Config {
	out := DefaultConfig()
	if c == nil {
		return out
	}
	if c.GasPath != "" {
		out.GasPath = c.GasPath
	}
	if c.SubmitPath != "" {
		out.SubmitPath = c.SubmitPath
	}
	if c.RequestType != "" {
		out.RequestType = c.RequestType
	}
	out.HideEffects = c.HideEffects
	return out
}
