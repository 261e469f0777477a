// Command creatorctl inspects the subscription contract and sends owner,
// creator and subscriber transactions signed with PRIVATE_KEY.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"creatorpay/pkg/config"
	"creatorpay/pkg/eth"

	"github.com/spf13/cobra"
)

var (
	timeout time.Duration
	cfg     *config.Config
	client  *eth.Client
)

var rootCmd = &cobra.Command{
	Use:   "creatorctl",
	Short: "Operate the CreatorPay subscription contract",
	Long: `creatorctl reads the subscription contract configured by RPC_URL,
CHAIN_ID and CONTRACT_ADDRESS. Write commands sign with PRIVATE_KEY and
wait for the receipt.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		client, err = eth.Dial(ctx, eth.ConfigFrom(cfg))
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if client != nil {
			client.Close()
		}
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show contract deployment, owner and head block",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return runStatus(ctx, cmd.OutOrStdout(), client)
	},
}

var creatorsCmd = &cobra.Command{
	Use:   "creators",
	Short: "List registered creators with fees and balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return runCreators(ctx, cmd.OutOrStdout(), client)
	},
}

var (
	registerFee   string
	registerShare int
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the signing wallet as a creator",
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := newSigner()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return runRegister(ctx, cmd.OutOrStdout(), client, signer, registerFee, registerShare)
	},
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <creator>",
	Short: "Subscribe the signing wallet to a creator, paying the current fee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := newSigner()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return runSubscribe(ctx, cmd.OutOrStdout(), client, signer, args[0])
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw the signing creator's earnings",
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := newSigner()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return runWithdraw(ctx, cmd.OutOrStdout(), client, signer)
	},
}

var withdrawPlatformCmd = &cobra.Command{
	Use:   "withdraw-platform <creator>",
	Short: "Withdraw the platform cut accumulated for a creator (owner only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := newSigner()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return runWithdrawPlatform(ctx, cmd.OutOrStdout(), client, signer, args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 3*time.Minute, "Operation timeout")

	registerCmd.Flags().StringVar(&registerFee, "fee", "0.001", "Subscription fee in ETH")
	registerCmd.Flags().IntVar(&registerShare, "share", 10, "Platform share in percent (1-30)")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(creatorsCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(subscribeCmd)
	rootCmd.AddCommand(withdrawCmd)
	rootCmd.AddCommand(withdrawPlatformCmd)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func newSigner() (*eth.Transactor, error) {
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("PRIVATE_KEY must be set for write commands")
	}
	return eth.NewTransactor(client, cfg.PrivateKey)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
