// Package sponsortest 提供进程内的 sponsor 与节点模拟服务，用于测试完整的代付流程。
package sponsortest

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/btcsuite/btcutil/base58"
	"github.com/fardream/go-bcs/bcs"
	"github.com/gin-gonic/gin"
	"github.com/pattonkan/sui-go/sui/suiptb"

	"github.com/sui-sponsor/client-sdk-go/transaction"
	"github.com/sui-sponsor/client-sdk-go/types"
	"github.com/sui-sponsor/client-sdk-go/wallet"
)

// 默认 gas 参数
const (
	DefaultOwner  = "0x5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a"
	DefaultPrice  = uint64(1000)
	DefaultBudget = uint64(5000000)
)

// Submission 一次提交记录
type Submission struct {
	TxBytes          []byte
	Signature        string
	SponsorSignature string
	// Signer 从用户签名恢复出的地址，签名无效时为空
	Signer types.Address
	// Via "sponsor" | "network"
	Via string
}

// Server 模拟 sponsor（/tx/gas、/tx/submit）与节点 JSON-RPC（/rpc）
type Server struct {
	URL string

	srv     *httptest.Server
	options options
	counter atomic.Uint64

	mu          sync.Mutex
	gasRequests [][]byte
	submissions []Submission
}

type options struct {
	owner        string
	price        uint64
	budget       uint64
	fixedPayment *types.ObjectRef
	sponsorSig   string
	gasStatus    int
	gasBody      string
	submitStatus int
	submitBody   string
	submitErrors []string
}

// Option 配置项
type Option func(*options)

// WithFixedPayment 所有请求返回同一个支付对象
func WithFixedPayment(ref types.ObjectRef) Option {
	return func(o *options) { o.fixedPayment = &ref }
}

// WithGasParams 设置 owner / price / budget
func WithGasParams(owner string, price, budget uint64) Option {
	return func(o *options) {
		o.owner = owner
		o.price = price
		o.budget = budget
	}
}

// WithSponsorSignature gas 响应携带 sig 字段
func WithSponsorSignature(sig string) Option {
	return func(o *options) { o.sponsorSig = sig }
}

// WithGasResponse 用固定状态码与响应体替换 gas 接口
func WithGasResponse(status int, body string) Option {
	return func(o *options) {
		o.gasStatus = status
		o.gasBody = body
	}
}

// WithSubmitResponse 用固定状态码与响应体替换提交接口
func WithSubmitResponse(status int, body string) Option {
	return func(o *options) {
		o.submitStatus = status
		o.submitBody = body
	}
}

// WithSubmitErrors 提交成功但在 errors 中返回执行错误
func WithSubmitErrors(errs ...string) Option {
	return func(o *options) { o.submitErrors = errs }
}

// New 启动模拟服务，测试结束时自动关闭
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	o := options{
		owner:  DefaultOwner,
		price:  DefaultPrice,
		budget: DefaultBudget,
	}
	for _, opt := range opts {
		opt(&o)
	}

	gin.SetMode(gin.TestMode)
	s := &Server{options: o}

	r := gin.New()
	r.POST("/tx/gas", s.handleGas)
	r.POST("/tx/submit", s.handleSubmit)
	r.POST("/rpc", s.handleRPC)

	s.srv = httptest.NewServer(r)
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// RPCURL 节点 JSON-RPC 地址
func (s *Server) RPCURL() string {
	return s.URL + "/rpc"
}

// GasRequests 已收到的 gas 请求（解码后的交易字节）
func (s *Server) GasRequests() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.gasRequests...)
}

// Submissions 已收到的提交
func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}

// nextPayment 每个请求分配不同的支付对象
func (s *Server) nextPayment() types.ObjectRef {
	if s.options.fixedPayment != nil {
		return *s.options.fixedPayment
	}
	n := s.counter.Add(1)
	return types.ObjectRef{
		ObjectID: fmt.Sprintf("0x%064x", 0xa000+n),
		Version:  n,
		Digest:   ObjectDigest(fmt.Sprintf("gas%04d", n)),
	}
}

// ObjectDigest 由种子生成确定的 32 字节对象摘要（base58）
func ObjectDigest(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return base58.Encode(sum[:])
}

// DecodeTransaction 按 TransactionData 的 BCS 布局解码，要求消费全部字节
func DecodeTransaction(txBytes []byte) (tx suiptb.TransactionData, err error) {
	// 非法的枚举序号会使解码器 panic
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode transaction data: %v", r)
		}
	}()

	r := bytes.NewReader(txBytes)
	if _, err := bcs.NewDecoder(r).Decode(&tx); err != nil {
		return tx, fmt.Errorf("decode transaction data: %w", err)
	}
	if r.Len() != 0 {
		return tx, fmt.Errorf("decode transaction data: %d trailing bytes", r.Len())
	}
	if tx.V1 == nil || tx.V1.Kind.ProgrammableTransaction == nil {
		return tx, fmt.Errorf("decode transaction data: not a programmable transaction")
	}
	return tx, nil
}

func (s *Server) handleGas(c *gin.Context) {
	var req struct {
		TxData string `json:"tx_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txBytes, err := base64.StdEncoding.DecodeString(req.TxData)
	if err != nil || len(txBytes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tx_data must be non-empty base64"})
		return
	}

	s.mu.Lock()
	s.gasRequests = append(s.gasRequests, txBytes)
	s.mu.Unlock()

	if s.options.gasStatus != 0 {
		c.Data(s.options.gasStatus, "application/json", []byte(s.options.gasBody))
		return
	}
	if _, err := DecodeTransaction(txBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"gas_data": gin.H{
			"payment": []types.ObjectRef{s.nextPayment()},
			"owner":   s.options.owner,
			"price":   s.options.price,
			"budget":  s.options.budget,
		},
	}
	if s.options.sponsorSig != "" {
		resp["sig"] = s.options.sponsorSig
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req struct {
		TransactionBlockBytes string `json:"transactionBlockBytes"`
		Signature             string `json:"signature"`
		SponsorSignature      string `json:"sponsorSignature"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := s.record(req.TransactionBlockBytes, []string{req.Signature, req.SponsorSignature}, "sponsor")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if s.options.submitStatus != 0 {
		c.Data(s.options.submitStatus, "application/json", []byte(s.options.submitBody))
		return
	}

	errs := s.options.submitErrors
	if errs == nil {
		errs = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"response": executeResult(sub.TxBytes, len(errs) == 0),
		"errors":   errs,
	})
}

// handleRPC 实现测试所需的节点 JSON-RPC 子集
func (s *Server) handleRPC(c *gin.Context) {
	var req struct {
		ID     uint64            `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply := func(result interface{}) {
		c.JSON(http.StatusOK, gin.H{"jsonrpc": "2.0", "id": req.ID, "result": result})
	}
	fail := func(code int, msg string) {
		c.JSON(http.StatusOK, gin.H{"jsonrpc": "2.0", "id": req.ID, "error": gin.H{"code": code, "message": msg}})
	}

	switch req.Method {
	case "sui_getChainIdentifier":
		reply("4c78adac")

	case "sui_executeTransactionBlock":
		if len(req.Params) < 2 {
			fail(-32602, "expected [txBytes, signatures, ...]")
			return
		}
		var txB64 string
		var sigs []string
		if json.Unmarshal(req.Params[0], &txB64) != nil || json.Unmarshal(req.Params[1], &sigs) != nil || len(sigs) == 0 {
			fail(-32602, "invalid params")
			return
		}
		sub, err := s.record(txB64, sigs, "network")
		if err != nil {
			fail(-32002, err.Error())
			return
		}
		reply(executeResult(sub.TxBytes, true))

	case "sui_getTransactionBlock":
		var digest string
		if len(req.Params) == 0 || json.Unmarshal(req.Params[0], &digest) != nil {
			fail(-32602, "invalid params")
			return
		}
		for _, sub := range s.Submissions() {
			if transaction.Digest(sub.TxBytes) == digest {
				reply(executeResult(sub.TxBytes, true))
				return
			}
		}
		fail(-32602, "Could not find the referenced transaction "+digest)

	default:
		fail(-32601, "method not found: "+req.Method)
	}
}

// record 校验用户签名并记录提交
func (s *Server) record(txB64 string, sigs []string, via string) (Submission, error) {
	txBytes, err := base64.StdEncoding.DecodeString(txB64)
	if err != nil || len(txBytes) == 0 {
		return Submission{}, fmt.Errorf("transactionBlockBytes must be non-empty base64")
	}
	if len(sigs) == 0 || sigs[0] == "" {
		return Submission{}, fmt.Errorf("signature is required")
	}

	tx, err := DecodeTransaction(txBytes)
	if err != nil {
		return Submission{}, err
	}
	signer, err := wallet.VerifyTransactionSignature(txBytes, sigs[0])
	if err != nil {
		return Submission{}, fmt.Errorf("invalid user signature: %w", err)
	}
	if tx.V1.Sender.String() != signer.String() {
		return Submission{}, fmt.Errorf("signer %s is not the transaction sender %s", signer, tx.V1.Sender)
	}

	sub := Submission{
		TxBytes:   txBytes,
		Signature: sigs[0],
		Signer:    signer,
		Via:       via,
	}
	if len(sigs) > 1 {
		sub.SponsorSignature = sigs[1]
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, sub)
	s.mu.Unlock()
	return sub, nil
}

// executeResult 构造节点执行结果
func executeResult(txBytes []byte, success bool) gin.H {
	status := gin.H{"status": "success"}
	if !success {
		status = gin.H{"status": "failure", "error": "InsufficientGas"}
	}
	return gin.H{
		"digest": transaction.Digest(txBytes),
		"effects": gin.H{
			"status": status,
			"gasUsed": gin.H{
				"computationCost": "1000000",
				"storageCost":     "1976000",
				"storageRebate":   "978120",
			},
		},
	}
}
