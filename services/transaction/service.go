package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sui-sponsor/client-sdk-go/client"
	"github.com/sui-sponsor/client-sdk-go/services"
	"github.com/sui-sponsor/client-sdk-go/types"
	"github.com/sui-sponsor/client-sdk-go/utils"
)

// JSON-RPC 方法
const (
	methodExecuteTransactionBlock = "sui_executeTransactionBlock"
	methodGetTransactionBlock     = "sui_getTransactionBlock"
)

// Service Transaction 网络服务接口
type Service interface {
	// ExecuteTransaction 将签名后的交易直接提交到节点
	//
	// 签名顺序为 [用户签名, sponsor 签名]，sponsor 签名缺失时只提交用户签名。
	ExecuteTransaction(ctx context.Context, signed *types.SignedTransaction) (*types.SubmitResult, error)

	// GetTransaction 按摘要查询交易执行结果
	GetTransaction(ctx context.Context, digest string) (*utils.ParsedTx, error)

	// GetTransactions 并发查询多笔交易，返回结果与输入顺序一致
	GetTransactions(ctx context.Context, digests []string) ([]*utils.ParsedTx, error)

	// WaitForTransaction 轮询直到交易可查询或超时
	WaitForTransaction(ctx context.Context, digest string, timeout time.Duration) (*utils.ParsedTx, error)
}

// transactionService Transaction 服务实现
type transactionService struct {
	client client.Client
	config *services.Config
	// pollInterval WaitForTransaction 的轮询间隔
	pollInterval time.Duration
}

// NewService 创建 Transaction 服务
func NewService(client client.Client, config *services.Config) Service {
	return &transactionService{
		client:       client,
		config:       config.WithDefaults(),
		pollInterval: 2 * time.Second,
	}
}

// executeOptions 节点响应内容选项
type executeOptions struct {
	ShowEffects bool `json:"showEffects"`
}

// ExecuteTransaction 提交交易
func (s *transactionService) ExecuteTransaction(ctx context.Context, signed *types.SignedTransaction) (*types.SubmitResult, error) {
	if signed == nil || len(signed.TxBytes) == 0 || signed.Signature == "" {
		return nil, types.NewError(types.CodeInvalidArgument, "signed transaction requires bytes and signature")
	}

	params := []interface{}{
		signed.TxBytesBase64(),
		signed.Signatures(),
		executeOptions{ShowEffects: !s.config.HideEffects},
		s.config.RequestType,
	}

	raw, err := s.client.Call(ctx, methodExecuteTransactionBlock, params)
	if err != nil {
		// 节点拒绝（JSON-RPC error）视为提交失败，传输错误原样返回
		if errors.Is(err, types.ErrRPC) {
			sdkErr, _ := types.IsError(err)
			return nil, &types.Error{
				Code:    types.CodeSubmissionFailed,
				Message: "network rejected transaction",
				Body:    sdkErr.Message,
				Cause:   err,
			}
		}
		return nil, err
	}

	parsed, err := utils.ParseTransactionBlock(raw)
	if err != nil {
		return nil, &types.Error{
			Code:    types.CodeSubmissionFailed,
			Message: "unreadable execution result",
			Body:    string(raw),
			Cause:   err,
		}
	}

	result := &types.SubmitResult{
		Digest: parsed.Digest,
		Status: parsed.Status,
		Errors: parsed.Errors,
		Raw:    raw,
	}
	if result.Digest == "" {
		result.Digest = signed.Digest
	}
	if parsed.Status == utils.StatusFailure && parsed.Error != "" && len(result.Errors) == 0 {
		result.Errors = []string{parsed.Error}
	}
	return result, nil
}

// GetTransaction 获取交易信息
func (s *transactionService) GetTransaction(ctx context.Context, digest string) (*utils.ParsedTx, error) {
	if digest == "" {
		return nil, types.NewError(types.CodeInvalidArgument, "digest is required")
	}

	params := []interface{}{
		digest,
		executeOptions{ShowEffects: true},
	}

	raw, err := s.client.Call(ctx, methodGetTransactionBlock, params)
	if err != nil {
		return nil, fmt.Errorf("get transaction %s failed: %w", digest, err)
	}

	tx, err := utils.ParseTransactionBlock(raw)
	if err != nil {
		return nil, fmt.Errorf("decode transaction %s failed: %w", digest, err)
	}
	return tx, nil
}

// GetTransactions 批量获取交易信息
func (s *transactionService) GetTransactions(ctx context.Context, digests []string) ([]*utils.ParsedTx, error) {
	return utils.ParallelExecute(ctx, digests, s.GetTransaction, 5)
}

// WaitForTransaction 等待交易可查询
//
// **流程**：
// 1. 立即查询一次
// 2. 查询失败时按 pollInterval 轮询
// 3. 超时或 ctx 结束时返回最后一次的错误
func (s *transactionService) WaitForTransaction(ctx context.Context, digest string, timeout time.Duration) (*utils.ParsedTx, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		tx, err := s.GetTransaction(ctx, digest)
		if err == nil {
			return tx, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for transaction %s: %w (last error: %v)", digest, ctx.Err(), lastErr)
		case <-ticker.C:
		}
	}
}
