package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sui-sponsor/client-sdk-go/services/sponsored"
	"github.com/sui-sponsor/client-sdk-go/wallet"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "显示签名地址",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := sponsored.LoadWallet(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", w.Address(), w.Scheme())
		return nil
	},
}

var addressNewCmd = &cobra.Command{
	Use:   "new",
	Short: "生成新密钥并写入 keystore",
	RunE: func(cmd *cobra.Command, args []string) error {
		schemeName, _ := cmd.Flags().GetString("scheme")
		scheme, err := wallet.ParseScheme(schemeName)
		if err != nil {
			return err
		}

		w, err := wallet.NewWallet(scheme)
		if err != nil {
			return err
		}

		path := cfg.KeystorePath
		if path == "" {
			path = wallet.DefaultKeystoreFile
		}
		km, err := wallet.NewKeystoreManager(path)
		if err != nil {
			return err
		}
		if err := km.Save(w); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) saved to %s\n", w.Address(), w.Scheme(), km.Path())
		return nil
	},
}

func init() {
	addressNewCmd.Flags().String("scheme", "ed25519", "签名方案 ed25519 | secp256k1")
	addressCmd.AddCommand(addressNewCmd)
}
