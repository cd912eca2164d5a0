// Package sponsored 实现一次完整的代付发送：构建 → 申请 gas → 合并 → 签名 → 提交
package sponsored

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sui-sponsor/client-sdk-go/client"
	"github.com/sui-sponsor/client-sdk-go/config"
	"github.com/sui-sponsor/client-sdk-go/metrics"
	"github.com/sui-sponsor/client-sdk-go/services/gasstation"
	txservice "github.com/sui-sponsor/client-sdk-go/services/transaction"
	"github.com/sui-sponsor/client-sdk-go/transaction"
	"github.com/sui-sponsor/client-sdk-go/types"
	"github.com/sui-sponsor/client-sdk-go/utils"
	"github.com/sui-sponsor/client-sdk-go/wallet"
)

// 阶段名，用于日志与指标
const (
	StageBuild  = "build"
	StageGas    = "gas"
	StageMerge  = "merge"
	StageSign   = "sign"
	StageSubmit = "submit"
)

// Options Sender 依赖
type Options struct {
	// Wallet 签名者（必填），只读共享
	Wallet wallet.Wallet
	// GasStation sponsor 服务（必填）
	GasStation gasstation.Service
	// Network 节点服务，SubmitTo 为 network 时必填
	Network txservice.Service
	// SubmitTo "sponsor"（默认）| "network"
	SubmitTo string

	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Sender 代付发送器
//
// Sender 本身无可变状态，可被多个 goroutine 并发调用 Send。
type Sender struct {
	wallet   wallet.Wallet
	gas      gasstation.Service
	network  txservice.Service
	submitTo string
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewSender 创建发送器
func NewSender(opts Options) (*Sender, error) {
	if opts.Wallet == nil {
		return nil, types.NewError(types.CodeInvalidArgument, "wallet is required")
	}
	if opts.GasStation == nil {
		return nil, types.NewError(types.CodeInvalidArgument, "gas station service is required")
	}

	submitTo := opts.SubmitTo
	if submitTo == "" {
		submitTo = config.SubmitToSponsor
	}
	switch submitTo {
	case config.SubmitToSponsor:
	case config.SubmitToNetwork:
		if opts.Network == nil {
			return nil, types.NewError(types.CodeInvalidArgument, "network service is required when submitting to the network")
		}
	default:
		return nil, types.NewError(types.CodeInvalidArgument, "unknown submit target %q", submitTo)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Sender{
		wallet:   opts.Wallet,
		gas:      opts.GasStation,
		network:  opts.Network,
		submitTo: submitTo,
		logger:   logger.With(zap.String("sender", utils.ShortAddress(opts.Wallet.Address()))),
		metrics:  opts.Metrics,
	}, nil
}

// Address 发送者地址
func (s *Sender) Address() types.Address {
	return s.wallet.Address()
}

// Send 执行一次代付发送
//
// **流程**：
// 1. 在新草稿上执行 build 并写入 sender
// 2. 序列化不含 gas 的交易字节，向 sponsor 申请 GasData
// 3. 合并 GasData 并定稿
// 4. 对定稿字节签名，确认签名后草稿未变
// 5. 提交到 sponsor 或节点
//
// 任一步骤出错都会终止本次尝试，返回的 Attempt 处于 Failed 状态并记录原因。
// 本层不设超时，也不重试。
func (s *Sender) Send(ctx context.Context, build BuildFunc) (*Attempt, error) {
	a := NewAttempt()
	ctx = client.WithRequestID(ctx, a.ID)
	log := s.logger.With(zap.String("attempt", a.ID))

	s.metrics.AttemptStarted()
	err := s.run(ctx, a, build, log)
	s.metrics.AttemptFinished(err)

	if err != nil {
		log.Warn("sponsored transaction failed",
			zap.Stringer("state", a.FailedIn()),
			zap.Error(err))
		return a, err
	}

	log.Info("sponsored transaction submitted",
		zap.String("digest", a.Result.Digest),
		zap.String("status", a.Result.Status),
		zap.Strings("errors", a.Result.Errors),
		zap.Duration("elapsed", time.Since(a.StartedAt)))
	return a, nil
}

func (s *Sender) run(ctx context.Context, a *Attempt, build BuildFunc, log *zap.Logger) error {
	if build == nil {
		return a.fail(types.NewError(types.CodeInvalidArgument, "build function is required"))
	}

	// 1. 构建
	start := time.Now()
	sender := s.wallet.Address()
	a.Draft.SetSender(sender)
	err := build(a.Draft, sender)
	var unsigned []byte
	if err == nil {
		unsigned, err = a.Draft.SerializeUnsigned()
	}
	s.metrics.ObserveStage(StageBuild, start, err)
	if err != nil {
		return a.fail(fmt.Errorf("build transaction: %w", err))
	}
	if err := a.advance(StateAwaitingGas); err != nil {
		return a.fail(err)
	}
	log.Debug("requesting gas", zap.Int("tx_bytes", len(unsigned)))

	// 2. 申请 gas
	start = time.Now()
	resp, err := s.gas.RequestGas(ctx, unsigned)
	s.metrics.ObserveStage(StageGas, start, err)
	if err != nil {
		return a.fail(err)
	}
	a.GasData = resp.GasData
	a.SponsorSignature = resp.SponsorSignature
	if err := a.advance(StateGasReceived); err != nil {
		return a.fail(err)
	}

	// 3. 合并
	start = time.Now()
	_, err = transaction.MergeGas(a.Draft, a.GasData)
	s.metrics.ObserveStage(StageMerge, start, err)
	if err != nil {
		return a.fail(err)
	}
	if err := a.advance(StateFinalized); err != nil {
		return a.fail(err)
	}
	log.Debug("gas merged",
		zap.String("gas_owner", a.GasData.Owner.String()),
		zap.Uint64("gas_price", *a.GasData.Price),
		zap.String("gas_budget_sui", utils.FormatMist(*a.GasData.Budget)))

	// 4. 签名
	start = time.Now()
	signed, err := transaction.Sign(a.Draft, s.wallet)
	if err == nil {
		err = transaction.VerifyFresh(a.Draft, signed)
	}
	s.metrics.ObserveStage(StageSign, start, err)
	if err != nil {
		return a.fail(err)
	}
	signed.SponsorSignature = a.SponsorSignature
	a.Signed = signed
	if err := a.advance(StateSigned); err != nil {
		return a.fail(err)
	}

	// 5. 提交
	start = time.Now()
	result, err := s.submit(ctx, signed)
	s.metrics.ObserveStage(StageSubmit, start, err)
	if err != nil {
		return a.fail(err)
	}
	a.Result = result
	return a.advance(StateSubmitted)
}

func (s *Sender) submit(ctx context.Context, signed *types.SignedTransaction) (*types.SubmitResult, error) {
	if s.submitTo == config.SubmitToNetwork {
		return s.network.ExecuteTransaction(ctx, signed)
	}
	return s.gas.Submit(ctx, signed)
}

// RunLoad 分批并发发送，直到 ctx 结束或达到 MaxBatches
//
// 每批失败汇总后记录日志，不中断后续批次。
func (s *Sender) RunLoad(ctx context.Context, cfg *utils.LoadConfig, build BuildFunc) (*utils.LoadSummary, error) {
	if cfg == nil {
		cfg = utils.DefaultLoadConfig()
	}
	opts := *cfg
	onBatch := cfg.OnBatch
	opts.OnBatch = func(report utils.BatchReport) {
		s.metrics.BatchFinished()
		fields := []zap.Field{
			zap.Int("batch", report.Batch),
			zap.Int("success", report.Success),
			zap.Int("failed", report.Failed),
			zap.Duration("duration", report.Duration),
		}
		if report.Err != nil {
			s.logger.Warn("batch finished with failures", append(fields, zap.Error(report.Err))...)
		} else {
			s.logger.Info("batch finished", fields...)
		}
		if onBatch != nil {
			onBatch(report)
		}
	}

	return utils.RunBatches(ctx, &opts, func(ctx context.Context, _ int) error {
		_, err := s.Send(ctx, build)
		return err
	})
}
