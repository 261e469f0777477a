package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"text/tabwriter"

	"creatorpay/pkg/eth"
	"creatorpay/pkg/models"
	"creatorpay/pkg/units"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

var (
	errAlreadyRegistered = errors.New("wallet is already a registered creator")
	errNotRegistered     = errors.New("creator is not registered")
	errNothingToWithdraw = errors.New("nothing to withdraw")
	errNotOwner          = errors.New("signing wallet is not the contract owner")
)

// chainAPI is the part of *eth.Client the commands use.
type chainAPI interface {
	VerifyContract(ctx context.Context) (*eth.ContractStatus, error)
	LatestBlock(ctx context.Context) (uint64, error)
	Owner(ctx context.Context) (common.Address, error)
	RegisteredCreators(ctx context.Context) ([]common.Address, error)
	Creator(ctx context.Context, creator common.Address) (*models.CreatorOnChain, error)
	PrepareRegisterCreator(fee *big.Int, platformShare uint64) (*eth.PreparedTx, error)
	PrepareSubscribe(creator common.Address, fee *big.Int) (*eth.PreparedTx, error)
	PrepareWithdrawCreatorEarnings() (*eth.PreparedTx, error)
	PrepareWithdrawPlatformCut(creator common.Address) (*eth.PreparedTx, error)
}

type signer interface {
	From() common.Address
	Send(ctx context.Context, ptx *eth.PreparedTx) (*eth.Receipt, error)
}

func runStatus(ctx context.Context, w io.Writer, chain chainAPI) error {
	status, err := chain.VerifyContract(ctx)
	if err != nil {
		return err
	}
	head, err := chain.LatestBlock(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Contract:  %s\n", status.Address)
	fmt.Fprintf(w, "Chain ID:  %d\n", status.ChainID)
	fmt.Fprintf(w, "Head:      %d\n", head)
	if status.Owner != "" {
		fmt.Fprintf(w, "Owner:     %s\n", status.Owner)
	}
	if status.Warning != "" {
		fmt.Fprintf(w, "Warning:   %s\n", status.Warning)
	}
	return nil
}

func runCreators(ctx context.Context, w io.Writer, chain chainAPI) error {
	addrs, err := chain.RegisteredCreators(ctx)
	if err != nil {
		return err
	}

	creators := make([]*models.CreatorOnChain, len(addrs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, addr := range addrs {
		g.Go(func() error {
			c, err := chain.Creator(gctx, addr)
			if err != nil {
				return fmt.Errorf("failed to read creator %s: %w", addr.Hex(), err)
			}
			creators[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(creators) == 0 {
		fmt.Fprintln(w, "No registered creators")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tNAME\tFEE (ETH)\tSHARE\tCREATOR BAL\tPLATFORM BAL")
	for _, c := range creators {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d%%\t%s\t%s\n",
			c.Address,
			c.DisplayName(""),
			units.FormatEth(c.SubscriptionFee),
			c.PlatformShare,
			units.FormatEth(c.CreatorBalance),
			units.FormatEth(c.PlatformBalance),
		)
	}
	return tw.Flush()
}

func runRegister(ctx context.Context, w io.Writer, chain chainAPI, s signer, fee string, share int) error {
	wei, err := models.ValidateRegistration(fee, share)
	if err != nil {
		return err
	}

	current, err := chain.Creator(ctx, s.From())
	if err != nil {
		return err
	}
	if current.IsRegistered() {
		return fmt.Errorf("%w: %s", errAlreadyRegistered, s.From().Hex())
	}

	ptx, err := chain.PrepareRegisterCreator(wei, uint64(share))
	if err != nil {
		return err
	}
	return send(ctx, w, s, ptx)
}

func runSubscribe(ctx context.Context, w io.Writer, chain chainAPI, s signer, creator string) error {
	key, err := units.NormalizeAddress(creator)
	if err != nil {
		return err
	}
	addr := common.HexToAddress(key)

	c, err := chain.Creator(ctx, addr)
	if err != nil {
		return err
	}
	if !c.IsRegistered() {
		return fmt.Errorf("%w: %s", errNotRegistered, key)
	}

	ptx, err := chain.PrepareSubscribe(addr, c.SubscriptionFee)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Paying %s ETH to %s\n", units.FormatEth(c.SubscriptionFee), c.DisplayName(""))
	return send(ctx, w, s, ptx)
}

func runWithdraw(ctx context.Context, w io.Writer, chain chainAPI, s signer) error {
	c, err := chain.Creator(ctx, s.From())
	if err != nil {
		return err
	}
	if !c.IsRegistered() {
		return fmt.Errorf("%w: %s", errNotRegistered, s.From().Hex())
	}
	if c.CreatorBalance == nil || c.CreatorBalance.Sign() == 0 {
		return errNothingToWithdraw
	}

	ptx, err := chain.PrepareWithdrawCreatorEarnings()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Withdrawing %s ETH\n", units.FormatEth(c.CreatorBalance))
	return send(ctx, w, s, ptx)
}

func runWithdrawPlatform(ctx context.Context, w io.Writer, chain chainAPI, s signer, creator string) error {
	key, err := units.NormalizeAddress(creator)
	if err != nil {
		return err
	}
	addr := common.HexToAddress(key)

	owner, err := chain.Owner(ctx)
	if err != nil {
		return err
	}
	if owner != s.From() {
		return fmt.Errorf("%w: owner is %s", errNotOwner, owner.Hex())
	}

	c, err := chain.Creator(ctx, addr)
	if err != nil {
		return err
	}
	if !c.IsRegistered() {
		return fmt.Errorf("%w: %s", errNotRegistered, key)
	}
	if c.PlatformBalance == nil || c.PlatformBalance.Sign() == 0 {
		return errNothingToWithdraw
	}

	ptx, err := chain.PrepareWithdrawPlatformCut(addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Withdrawing %s ETH platform cut from %s\n", units.FormatEth(c.PlatformBalance), c.DisplayName(""))
	return send(ctx, w, s, ptx)
}

func send(ctx context.Context, w io.Writer, s signer, ptx *eth.PreparedTx) error {
	fmt.Fprintf(w, "Sending %s from %s...\n", ptx.Method, s.From().Hex())
	receipt, err := s.Send(ctx, ptx)
	if err != nil {
		if receipt != nil {
			fmt.Fprintf(w, "Transaction %s: %s\n", receipt.TxHash, receipt.Status)
		}
		return err
	}
	fmt.Fprintf(w, "Transaction %s: %s (block %d, gas %d)\n", receipt.TxHash, receipt.Status, receipt.BlockNumber, receipt.GasUsed)
	return nil
}
