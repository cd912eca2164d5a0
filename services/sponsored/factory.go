package sponsored

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/sui-sponsor/client-sdk-go/client"
	"github.com/sui-sponsor/client-sdk-go/config"
	"github.com/sui-sponsor/client-sdk-go/logger"
	"github.com/sui-sponsor/client-sdk-go/metrics"
	"github.com/sui-sponsor/client-sdk-go/services/gasstation"
	txservice "github.com/sui-sponsor/client-sdk-go/services/transaction"
	"github.com/sui-sponsor/client-sdk-go/types"
	"github.com/sui-sponsor/client-sdk-go/wallet"
)

// LoadWallet 按配置加载签名钱包
//
// 优先使用 secret_key，否则从 keystore_path 中按 address 选择（address 为空时取第一个）。
func LoadWallet(cfg *config.Config) (wallet.Wallet, error) {
	if cfg.SecretKey != "" {
		w, err := wallet.FromBase64Secret(cfg.SecretKey)
		if err != nil {
			return nil, fmt.Errorf("import secret_key: %w", err)
		}
		return w, nil
	}
	if cfg.KeystorePath == "" {
		return nil, types.NewError(types.CodeInvalidArgument, "secret_key or keystore_path is required")
	}

	km, err := wallet.NewKeystoreManager(cfg.KeystorePath)
	if err != nil {
		return nil, err
	}
	if cfg.Address != "" {
		return km.Load(types.Address(cfg.Address))
	}
	all, err := km.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("keystore %s is empty", km.Path())
	}
	return all[0], nil
}

// Stack 由配置组装的客户端与服务
type Stack struct {
	Sender  *Sender
	Sponsor *client.RESTClient
	// Network 仅在配置了 network_url 时创建
	Network        client.Client
	NetworkService txservice.Service
}

// Close 关闭底层连接
func (s *Stack) Close() error {
	var result *multierror.Error
	if s.Sponsor != nil {
		if err := s.Sponsor.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if s.Network != nil {
		if err := s.Network.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// NewStack 按配置创建 Sender 及其依赖
//
// **流程**：
// 1. sponsor REST 客户端（不重试）+ Gas Station 服务
// 2. 节点客户端（http / websocket / grpc）+ Transaction 服务
// 3. 组装 Sender
func NewStack(cfg *config.Config, w wallet.Wallet, log *zap.Logger, m *metrics.Metrics) (*Stack, error) {
	if log == nil {
		log = logger.Log
	}
	svcCfg := cfg.ServicesConfig()

	// 1. sponsor
	sponsorCfg := cfg.SponsorClientConfig()
	sponsorCfg.Logger = logger.ForClient(log.Named("sponsor"))
	rest, err := client.NewRESTClient(sponsorCfg)
	if err != nil {
		return nil, err
	}
	stack := &Stack{Sponsor: rest}

	// 2. 节点
	if cfg.NetworkURL != "" {
		netCfg := cfg.NetworkClientConfig()
		netCfg.Logger = logger.ForClient(log.Named("network"))
		nc, err := client.NewClient(netCfg)
		if err != nil {
			if cfg.SubmitTo == config.SubmitToNetwork {
				_ = stack.Close()
				return nil, err
			}
			log.Warn("network client unavailable", zap.Error(err))
		} else {
			stack.Network = nc
			stack.NetworkService = txservice.NewService(nc, svcCfg)
		}
	}

	// 3. Sender
	sender, err := NewSender(Options{
		Wallet:     w,
		GasStation: gasstation.NewService(rest, svcCfg),
		Network:    stack.NetworkService,
		SubmitTo:   cfg.SubmitTo,
		Logger:     log,
		Metrics:    m,
	})
	if err != nil {
		_ = stack.Close()
		return nil, err
	}
	stack.Sender = sender
	return stack, nil
}
