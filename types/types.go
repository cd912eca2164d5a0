package types

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
)

// Address 链上地址（"0x" 开头的十六进制串）
//
// 编码交易时解析为 32 字节，短地址左侧补零。
type Address string

// String 返回地址字符串
func (a Address) String() string {
	return string(a)
}

// IsEmpty 地址是否为空
func (a Address) IsEmpty() bool {
	return a == ""
}

// ObjectRef 对象引用三元组 {objectId, version, digest}
//
// 三个字段必须与链上对象当前状态一致；合并 gas 时 ID 补齐为 32 字节，
// 顺序与版本保持不变。摘要为 32 字节的 base58 串。JSON 形式固定为 [id, version, digest]。
type ObjectRef struct {
	ObjectID string
	Version  uint64
	Digest   string
}

// MarshalJSON 编码为 [id, version, digest]
func (r ObjectRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{r.ObjectID, r.Version, r.Digest})
}

// UnmarshalJSON 按位置解析 [id, version, digest]，version 接受数字或十进制字符串
func (r *ObjectRef) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("object ref must be a 3-tuple: %w", err)
	}
	if len(tuple) != 3 {
		return fmt.Errorf("object ref must be a 3-tuple, got %d elements", len(tuple))
	}

	var id string
	if err := json.Unmarshal(tuple[0], &id); err != nil || id == "" {
		return fmt.Errorf("object ref id must be a non-empty string: %s", string(tuple[0]))
	}

	version, err := ParseUint64(tuple[1])
	if err != nil {
		return fmt.Errorf("object ref version: %w", err)
	}

	var digest string
	if err := json.Unmarshal(tuple[2], &digest); err != nil || digest == "" {
		return fmt.Errorf("object ref digest must be a non-empty string: %s", string(tuple[2]))
	}

	r.ObjectID = id
	r.Version = version
	r.Digest = digest
	return nil
}

// ParseUint64 解析 JSON 数字或十进制字符串形式的 u64
func ParseUint64(raw json.RawMessage) (uint64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("missing value")
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("invalid string: %w", err)
		}
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid u64 %q: %w", s, err)
	}
	return v, nil
}

// GasData sponsor 返回的 Gas 支付信息
//
// 字段为空（nil）表示 sponsor 响应中缺失该字段，合并时据此报 IncompleteGasData。
// 合并后即丢弃，不做缓存。
type GasData struct {
	Payment []ObjectRef
	Owner   *Address
	Price   *uint64
	Budget  *uint64
}

// NewGasData 创建字段齐全的 GasData
func NewGasData(payment []ObjectRef, owner Address, price, budget uint64) *GasData {
	return &GasData{
		Payment: payment,
		Owner:   &owner,
		Price:   &price,
		Budget:  &budget,
	}
}

// MissingFields 返回缺失的字段名
func (g *GasData) MissingFields() []string {
	missing := make([]string, 0)
	if g == nil {
		return []string{"payment", "owner", "price", "budget"}
	}
	if len(g.Payment) == 0 {
		missing = append(missing, "payment")
	}
	if g.Owner == nil || g.Owner.IsEmpty() {
		missing = append(missing, "owner")
	}
	if g.Price == nil {
		missing = append(missing, "price")
	}
	if g.Budget == nil {
		missing = append(missing, "budget")
	}
	return missing
}

// gasDataJSON sponsor 线上格式
type gasDataJSON struct {
	Payment []ObjectRef `json:"payment,omitempty"`
	Owner   *Address    `json:"owner,omitempty"`
	Price   *uint64     `json:"price,omitempty"`
	Budget  *uint64     `json:"budget,omitempty"`
}

// MarshalJSON 编码为 sponsor 的 gas_data 对象
func (g GasData) MarshalJSON() ([]byte, error) {
	return json.Marshal(gasDataJSON{
		Payment: g.Payment,
		Owner:   g.Owner,
		Price:   g.Price,
		Budget:  g.Budget,
	})
}

// SignedTransaction 已签名交易
//
// TxBytes 是定稿草稿的规范编码；Signature 为 base64(flag || sig || pubkey)。
// SponsorSignature 仅当 sponsor 预先签名时存在。Revision 记录签名时的草稿版本。
type SignedTransaction struct {
	TxBytes          []byte
	Signature        string
	SponsorSignature string
	Digest           string
	Revision         uint64
}

// TxBytesBase64 返回 base64 编码的交易字节
func (s *SignedTransaction) TxBytesBase64() string {
	return base64.StdEncoding.EncodeToString(s.TxBytes)
}

// Signatures 返回提交给网络的签名列表（用户签名在前）
func (s *SignedTransaction) Signatures() []string {
	sigs := []string{s.Signature}
	if s.SponsorSignature != "" {
		sigs = append(sigs, s.SponsorSignature)
	}
	return sigs
}

// SubmitResult 提交结果
type SubmitResult struct {
	Digest string          // 交易摘要
	Status string          // "success" | "failure" | ""（未返回 effects）
	Errors []string        // sponsor / 节点返回的错误
	Raw    json.RawMessage // 原始确认
}

// HasErrors 是否包含执行错误
func (r *SubmitResult) HasErrors() bool {
	return len(r.Errors) > 0 || r.Status == "failure"
}
