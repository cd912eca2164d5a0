package utils

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sui-sponsor/client-sdk-go/types"
)

// 执行状态
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// ParsedTx 解析后的交易执行结果
type ParsedTx struct {
	Digest     string
	Status     string // "success" | "failure" | ""（未返回 effects）
	Error      string // 执行失败原因
	Checkpoint uint64
	GasUsed    *GasCostSummary
	Errors     []string // 节点返回的 errors 数组
}

// GasCostSummary gas 消耗
type GasCostSummary struct {
	ComputationCost uint64
	StorageCost     uint64
	StorageRebate   uint64
}

// NetCost 净消耗（MIST），可能为负
func (g *GasCostSummary) NetCost() int64 {
	return int64(g.ComputationCost) + int64(g.StorageCost) - int64(g.StorageRebate)
}

// ParseTransactionBlock 解析交易块响应（sui_executeTransactionBlock / sui_getTransactionBlock 的 result）
//
// **流程**：
// 1. 解析为通用 map
// 2. 提取 digest、checkpoint、errors
// 3. 从 effects 中提取执行状态与 gas 消耗
func ParseTransactionBlock(raw []byte) (*ParsedTx, error) {
	var resultMap map[string]interface{}
	if err := json.Unmarshal(raw, &resultMap); err != nil {
		return nil, fmt.Errorf("invalid transaction block response: %w", err)
	}
	if resultMap == nil {
		return nil, fmt.Errorf("invalid transaction block response: null")
	}
	return parseTransactionBlockMap(resultMap), nil
}

func parseTransactionBlockMap(resultMap map[string]interface{}) *ParsedTx {
	parsed := &ParsedTx{}
	parsed.Digest, _ = resultMap["digest"].(string)
	parsed.Checkpoint = parseU64Field(resultMap["checkpoint"])
	parsed.Errors = parseStringArray(resultMap["errors"])

	effects, ok := resultMap["effects"].(map[string]interface{})
	if !ok {
		return parsed
	}

	if status, ok := effects["status"].(map[string]interface{}); ok {
		parsed.Status, _ = status["status"].(string)
		parsed.Error, _ = status["error"].(string)
	}

	if gasUsed, ok := effects["gasUsed"].(map[string]interface{}); ok {
		parsed.GasUsed = &GasCostSummary{
			ComputationCost: parseU64Field(gasUsed["computationCost"]),
			StorageCost:     parseU64Field(gasUsed["storageCost"]),
			StorageRebate:   parseU64Field(gasUsed["storageRebate"]),
		}
	}

	// effects 中的 transactionDigest 与外层 digest 相同，外层缺失时兜底
	if parsed.Digest == "" {
		parsed.Digest, _ = effects["transactionDigest"].(string)
	}
	return parsed
}

// ParseSubmitResponse 解析 sponsor 提交接口的响应
//
// sponsor 返回 {"response": <交易块响应>, "errors": [...]}；
// 没有 response 包装时按交易块响应直接解析。
func ParseSubmitResponse(raw []byte) (*types.SubmitResult, error) {
	var envelope map[string]interface{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("invalid submit response: %w", err)
	}
	if envelope == nil {
		return nil, fmt.Errorf("invalid submit response: null")
	}

	inner := envelope
	if resp, ok := envelope["response"].(map[string]interface{}); ok {
		inner = resp
	}

	parsed := parseTransactionBlockMap(inner)
	errs := parseStringArray(envelope["errors"])
	if len(errs) == 0 {
		errs = parsed.Errors
	}
	if parsed.Status == StatusFailure && parsed.Error != "" && len(errs) == 0 {
		errs = []string{parsed.Error}
	}

	return &types.SubmitResult{
		Digest: parsed.Digest,
		Status: parsed.Status,
		Errors: errs,
		Raw:    append(json.RawMessage(nil), raw...),
	}, nil
}

// parseU64Field 解析数字或十进制字符串，无法解析时返回 0
func parseU64Field(v interface{}) uint64 {
	switch val := v.(type) {
	case string:
		parsed, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	case float64:
		if val < 0 {
			return 0
		}
		return uint64(val)
	default:
		return 0
	}
}

// parseStringArray 提取字符串数组，非字符串元素按 JSON 文本保留
func parseStringArray(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		data, err := json.Marshal(item)
		if err == nil {
			out = append(out, string(data))
		}
	}
	return out
}
