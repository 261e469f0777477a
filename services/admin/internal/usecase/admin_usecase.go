package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"creatorpay/pkg/eth"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/models"
	"creatorpay/pkg/units"
	"creatorpay/services/admin/internal/entity"
	"creatorpay/services/admin/internal/repo/persistent"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotRegistered = errors.New("creator not registered")
	ErrNoFunds       = errors.New("no platform funds available")
)

// ChainReader is the part of *eth.Client the admin panel needs.
type ChainReader interface {
	Owner(ctx context.Context) (common.Address, error)
	RegisteredCreators(ctx context.Context) ([]common.Address, error)
	Creator(ctx context.Context, creator common.Address) (*models.CreatorOnChain, error)
	PrepareWithdrawPlatformCut(creator common.Address) (*eth.PreparedTx, error)
}

type AdminUseCase interface {
	Overview(ctx context.Context) (*entity.Overview, error)
	PrepareWithdrawPlatformCut(ctx context.Context, creator string) (*eth.PreparedTx, error)
}

type adminUseCase struct {
	chain     ChainReader
	statsRepo persistent.StatsRepository
	logger    *logger.Logger
}

func NewAdminUseCase(chain ChainReader, statsRepo persistent.StatsRepository, logger *logger.Logger) AdminUseCase {
	return &adminUseCase{
		chain:     chain,
		statsRepo: statsRepo,
		logger:    logger,
	}
}

func (uc *adminUseCase) Overview(ctx context.Context) (*entity.Overview, error) {
	owner, err := uc.chain.Owner(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read owner: %w", err)
	}

	addresses, err := uc.chain.RegisteredCreators(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registered creators: %w", err)
	}

	onChain := make([]*models.CreatorOnChain, len(addresses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, addr := range addresses {
		g.Go(func() error {
			c, err := uc.chain.Creator(gctx, addr)
			if err != nil {
				return fmt.Errorf("failed to load creator %s: %w", addr.Hex(), err)
			}
			c.Address = addr.Hex()
			onChain[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	keys := make([]string, len(addresses))
	for i, addr := range addresses {
		keys[i] = units.AddressKey(addr)
	}
	names, err := uc.statsRepo.GetNames(keys)
	if err != nil {
		uc.logger.Warn("Failed to load creator names: %v", err)
	}

	overview := &entity.Overview{
		Owner:    owner.Hex(),
		Creators: make([]*entity.CreatorEarnings, 0, len(onChain)),
	}
	platformTotal, creatorTotal := new(big.Int), new(big.Int)
	var shareSum uint64
	for i, c := range onChain {
		if !c.IsRegistered() {
			continue
		}
		overview.Creators = append(overview.Creators, &entity.CreatorEarnings{
			Address:         c.Address,
			Name:            c.DisplayName(names[keys[i]]),
			PlatformShare:   c.PlatformShare,
			PlatformBalance: models.NewAmount(c.PlatformBalance),
			CreatorBalance:  models.NewAmount(c.CreatorBalance),
		})
		if c.PlatformBalance != nil {
			platformTotal.Add(platformTotal, c.PlatformBalance)
		}
		if c.CreatorBalance != nil {
			creatorTotal.Add(creatorTotal, c.CreatorBalance)
		}
		shareSum += c.PlatformShare
	}

	overview.CreatorCount = len(overview.Creators)
	overview.TotalPlatformBalance = models.NewAmount(platformTotal)
	overview.TotalCreatorBalance = models.NewAmount(creatorTotal)
	overview.AverageShare = averageShare(shareSum, overview.CreatorCount)

	if stats, err := uc.statsRepo.GetIndexedStats(); err != nil {
		uc.logger.Warn("Failed to load indexed stats: %v", err)
	} else {
		overview.Indexed = stats
	}

	return overview, nil
}

// averageShare renders the mean platform share with one decimal.
func averageShare(sum uint64, count int) string {
	if count == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(count))
}

func (uc *adminUseCase) PrepareWithdrawPlatformCut(ctx context.Context, creator string) (*eth.PreparedTx, error) {
	key, err := units.NormalizeAddress(creator)
	if err != nil {
		return nil, err
	}
	addr := common.HexToAddress(key)

	onChain, err := uc.chain.Creator(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}
	if !onChain.IsRegistered() {
		return nil, ErrNotRegistered
	}
	if onChain.PlatformBalance == nil || onChain.PlatformBalance.Sign() == 0 {
		return nil, ErrNoFunds
	}

	uc.logger.Info("Preparing platform withdrawal of %s ETH from %s", units.FormatEth(onChain.PlatformBalance), strings.ToLower(addr.Hex()))
	return uc.chain.PrepareWithdrawPlatformCut(addr)
}
