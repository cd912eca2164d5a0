package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sui-sponsor/client-sdk-go/services/sponsored"
	"github.com/sui-sponsor/client-sdk-go/utils"
)

// WaitForTransactionWithTest 等待交易可查询
func WaitForTransactionWithTest(t *testing.T, stack *sponsored.Stack, digest string) *utils.ParsedTx {
	t.Helper()
	require.NotNil(t, stack.NetworkService, "未配置 network_url，无法查询交易")

	parsedTx, err := stack.NetworkService.WaitForTransaction(context.Background(), digest, TransactionConfirmTimeout)
	require.NoError(t, err, "等待交易确认失败: %s", digest)
	require.NotNil(t, parsedTx, "交易解析结果为空: %s", digest)
	return parsedTx
}

// VerifyTransactionSuccess 验证交易执行成功
func VerifyTransactionSuccess(t *testing.T, parsedTx *utils.ParsedTx) {
	t.Helper()
	require.NotNil(t, parsedTx, "交易解析结果为空")
	assert.True(t, utils.IsValidDigest(parsedTx.Digest), "交易摘要格式不正确: %s", parsedTx.Digest)
	assert.Equal(t, utils.StatusSuccess, parsedTx.Status, "交易执行失败: %s", parsedTx.Error)
	if parsedTx.GasUsed != nil {
		t.Logf("gas 净消耗: %s SUI", utils.FormatSignedMist(parsedTx.GasUsed.NetCost()))
	}
}
