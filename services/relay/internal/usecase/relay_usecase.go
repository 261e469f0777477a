package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"creatorpay/pkg/eth"
	"creatorpay/pkg/logger"
	"creatorpay/services/relay/internal/entity"
	"creatorpay/services/relay/internal/repo/cache"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrInvalidHash = errors.New("invalid transaction hash")

// MaxWait bounds how long Receipt blocks when asked to wait for mining.
const MaxWait = 60 * time.Second

// ChainSender is the part of *eth.Client the relay needs.
type ChainSender interface {
	DecodeRawTransaction(raw string) (*types.Transaction, error)
	SendRawTransaction(ctx context.Context, raw string) (common.Hash, error)
	ReceiptStatus(ctx context.Context, hash common.Hash) (*eth.Receipt, error)
	WaitReceipt(ctx context.Context, hash common.Hash) (*eth.Receipt, error)
}

type RelayUseCase interface {
	Submit(ctx context.Context, raw string) (*entity.Submission, error)
	Receipt(ctx context.Context, hash string, wait time.Duration) (*eth.Receipt, error)
}

type relayUseCase struct {
	chain     ChainSender
	discovery cache.DiscoveryCache
	logger    *logger.Logger
}

func NewRelayUseCase(chain ChainSender, discovery cache.DiscoveryCache, logger *logger.Logger) RelayUseCase {
	return &relayUseCase{
		chain:     chain,
		discovery: discovery,
		logger:    logger,
	}
}

func (uc *relayUseCase) Submit(ctx context.Context, raw string) (*entity.Submission, error) {
	tx, err := uc.chain.DecodeRawTransaction(raw)
	if err != nil {
		return nil, err
	}
	method := eth.MethodName(tx.Data())

	hash, err := uc.chain.SendRawTransaction(ctx, raw)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Relayed %s transaction %s", method, hash.Hex())

	if err := uc.discovery.Invalidate(ctx); err != nil {
		uc.logger.Warn("Failed to invalidate discovery cache: %v", err)
	}

	return &entity.Submission{TxHash: hash.Hex(), Method: method}, nil
}

// Receipt reports the mining state of hash. A positive wait polls until the
// transaction is mined or the wait elapses, whichever is first.
func (uc *relayUseCase) Receipt(ctx context.Context, hash string, wait time.Duration) (*eth.Receipt, error) {
	h, err := parseHash(hash)
	if err != nil {
		return nil, err
	}

	if wait <= 0 {
		return uc.chain.ReceiptStatus(ctx, h)
	}
	if wait > MaxWait {
		wait = MaxWait
	}

	wctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	// The wait can run out mid-RPC, leaving no receipt to report.
	r, err := uc.chain.WaitReceipt(wctx, h)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		if r == nil {
			r = &eth.Receipt{TxHash: h.Hex(), Status: eth.ReceiptPending}
		}
		return r, nil
	case errors.Is(err, eth.ErrReceiptFailed):
		return r, nil
	case err != nil:
		return nil, fmt.Errorf("failed to wait for receipt: %w", err)
	}
	return r, nil
}

func parseHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(strings.TrimSpace(s))
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, ErrInvalidHash
	}
	return common.BytesToHash(b), nil
}
