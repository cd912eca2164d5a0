package gasstation

import (
	"context"
	"encoding/base64"

	"github.com/sui-sponsor/client-sdk-go/client"
	"github.com/sui-sponsor/client-sdk-go/services"
	"github.com/sui-sponsor/client-sdk-go/types"
	"github.com/sui-sponsor/client-sdk-go/utils"
)

// Service Gas Station 服务接口
//
// 实现无状态，可被多个发送尝试并发调用。
type Service interface {
	// RequestGas 将不含 gas 的交易字节发给 sponsor，换取 GasData
	RequestGas(ctx context.Context, unsignedTxBytes []byte) (*GasResponse, error)

	// Submit 将签名后的交易交给 sponsor 代为提交
	Submit(ctx context.Context, signed *types.SignedTransaction) (*types.SubmitResult, error)
}

// Poster JSON POST 能力（client.RESTClient 实现了该接口）
type Poster interface {
	PostJSON(ctx context.Context, path string, body interface{}) (*client.Response, error)
}

// GasResponse sponsor 返回的 gas 信息
type GasResponse struct {
	// GasData 各字段缺失时为 nil，由合并阶段报告 IncompleteGasData
	GasData *types.GasData

	// SponsorSignature sponsor 对交易的预签名（可选，原样保存）
	SponsorSignature string
}

// gasRequest 申请 gas 的请求体
type gasRequest struct {
	TxData string `json:"tx_data"`
}

// submitRequest 提交交易的请求体
type submitRequest struct {
	TransactionBlockBytes string `json:"transactionBlockBytes"`
	Signature             string `json:"signature"`
	SponsorSignature      string `json:"sponsorSignature,omitempty"`
}

// gasStationService Gas Station 服务实现
type gasStationService struct {
	poster Poster
	config *services.Config
}

// NewService 创建 Gas Station 服务
func NewService(poster Poster, config *services.Config) Service {
	return &gasStationService{
		poster: poster,
		config: config.WithDefaults(),
	}
}

// RequestGas 申请 gas
//
// **流程**：
// 1. POST {"tx_data": base64(txBytes)}
// 2. 非 2xx 返回 GasRequestFailed（携带状态码与响应体），不做重试
// 3. 按位置解析 gas_data.payment 三元组，格式不符返回 MalformedGasResponse
func (s *gasStationService) RequestGas(ctx context.Context, unsignedTxBytes []byte) (*GasResponse, error) {
	if len(unsignedTxBytes) == 0 {
		return nil, types.NewError(types.CodeInvalidArgument, "unsigned transaction bytes are empty")
	}

	resp, err := s.poster.PostJSON(ctx, s.config.GasPath, &gasRequest{
		TxData: base64.StdEncoding.EncodeToString(unsignedTxBytes),
	})
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		e := types.NewGasRequestFailedError(resp.StatusCode, string(resp.Body))
		if pd, ok := client.ParseProblemDetails(resp.Body); ok {
			e.Message = "gas station rejected request: " + pd.Summary()
		}
		return nil, e
	}

	return decodeGasResponse(resp.Body)
}

// Submit 提交交易
func (s *gasStationService) Submit(ctx context.Context, signed *types.SignedTransaction) (*types.SubmitResult, error) {
	if signed == nil || len(signed.TxBytes) == 0 || signed.Signature == "" {
		return nil, types.NewError(types.CodeInvalidArgument, "signed transaction requires bytes and signature")
	}

	resp, err := s.poster.PostJSON(ctx, s.config.SubmitPath, &submitRequest{
		TransactionBlockBytes: signed.TxBytesBase64(),
		Signature:             signed.Signature,
		SponsorSignature:      signed.SponsorSignature,
	})
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		e := types.NewSubmissionFailedError(resp.StatusCode, string(resp.Body))
		if pd, ok := client.ParseProblemDetails(resp.Body); ok {
			e.Message = "sponsor rejected submission: " + pd.Summary()
		}
		return nil, e
	}

	result, err := utils.ParseSubmitResponse(resp.Body)
	if err != nil {
		return nil, &types.Error{
			Code:    types.CodeSubmissionFailed,
			Message: "unreadable submission acknowledgment",
			Status:  resp.StatusCode,
			Body:    string(resp.Body),
			Cause:   err,
		}
	}
	if result.Digest == "" {
		result.Digest = signed.Digest
	}
	return result, nil
}
