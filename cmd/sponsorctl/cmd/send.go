package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sui-sponsor/client-sdk-go/logger"
	"github.com/sui-sponsor/client-sdk-go/services/sponsored"
	"github.com/sui-sponsor/client-sdk-go/types"
	"github.com/sui-sponsor/client-sdk-go/utils"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "发送一笔代付交易",
	Long:  `从 gas coin 拆分指定金额并转给接收方（默认转给自己），由 sponsor 支付 gas。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		amountText, _ := cmd.Flags().GetString("amount")
		recipient, _ := cmd.Flags().GetString("recipient")
		showRaw, _ := cmd.Flags().GetBool("raw")

		// 1. 解析参数
		amount, err := parseAmount(amountText)
		if err != nil {
			return err
		}
		var to types.Address
		if recipient != "" {
			if to, err = utils.NormalizeAddress(recipient); err != nil {
				return err
			}
		}

		// 2. 组装
		w, err := sponsored.LoadWallet(cfg)
		if err != nil {
			return err
		}
		stack, err := sponsored.NewStack(cfg, w, logger.Log, nil)
		if err != nil {
			return err
		}
		defer stack.Close()

		// 3. 发送
		a, err := stack.Sender.Send(cmd.Context(), sponsored.SplitAndTransfer(to, amount))
		if err != nil {
			return fmt.Errorf("attempt %s failed in %s: %w", a.ID, a.FailedIn(), err)
		}

		// 4. 输出
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "================ 代付交易 ================")
		fmt.Fprintf(out, "Attempt:    %s\n", a.ID)
		fmt.Fprintf(out, "Sender:     %s\n", stack.Sender.Address())
		fmt.Fprintf(out, "Amount:     %s SUI\n", utils.FormatMist(amount))
		fmt.Fprintf(out, "Gas Owner:  %s\n", a.GasData.Owner.String())
		fmt.Fprintf(out, "Gas Budget: %s SUI\n", utils.FormatMist(*a.GasData.Budget))
		fmt.Fprintf(out, "Digest:     %s\n", a.Result.Digest)
		fmt.Fprintf(out, "Status:     %s\n", a.Result.Status)
		for _, e := range a.Result.Errors {
			fmt.Fprintf(out, "Error:      %s\n", e)
		}
		fmt.Fprintln(out, "==========================================")

		if showRaw && len(a.Result.Raw) > 0 {
			var pretty interface{}
			if json.Unmarshal(a.Result.Raw, &pretty) == nil {
				data, _ := json.MarshalIndent(pretty, "", "  ")
				fmt.Fprintln(out, string(data))
			}
		}
		return nil
	},
}

// parseAmount 解析金额：带小数点按 SUI 解析，否则按 MIST 解析
func parseAmount(s string) (uint64, error) {
	if strings.Contains(s, ".") {
		return utils.ParseSui(s)
	}
	mist, err := strconv.ParseUint(s, 10, 64)
	if err != nil || mist == 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return mist, nil
}

func init() {
	sendCmd.Flags().String("amount", "1000", "拆分金额，整数为 MIST，带小数点为 SUI")
	sendCmd.Flags().String("recipient", "", "接收地址（默认自己）")
	sendCmd.Flags().Bool("raw", false, "输出完整的提交回执")
}
