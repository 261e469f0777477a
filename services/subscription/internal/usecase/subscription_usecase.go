package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"creatorpay/pkg/eth"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/models"
	"creatorpay/pkg/units"
	"creatorpay/services/subscription/internal/entity"
	"creatorpay/services/subscription/internal/repo/persistent"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

var ErrNotRegistered = errors.New("creator not registered")

// ChainReader is the part of *eth.Client the subscriber dashboard needs.
type ChainReader interface {
	RegisteredCreators(ctx context.Context) ([]common.Address, error)
	Creator(ctx context.Context, creator common.Address) (*models.CreatorOnChain, error)
	IsSubscribed(ctx context.Context, user, creator common.Address) (bool, error)
	SubscriptionExpiry(ctx context.Context, user, creator common.Address) (int64, error)
	PrepareSubscribe(creator common.Address, fee *big.Int) (*eth.PreparedTx, error)
}

type SubscriptionUseCase interface {
	ListForUser(ctx context.Context, user string, activeOnly bool) ([]*entity.Subscription, error)
	PrepareSubscribe(ctx context.Context, user, creator string) (*entity.SubscribeIntent, error)
	Status(ctx context.Context, user, creator string) (*entity.Status, error)
}

type subscriptionUseCase struct {
	chain       ChainReader
	profileRepo persistent.ProfileRepository
	logger      *logger.Logger
	now         func() time.Time
}

func NewSubscriptionUseCase(chain ChainReader, profileRepo persistent.ProfileRepository, logger *logger.Logger) SubscriptionUseCase {
	return &subscriptionUseCase{
		chain:       chain,
		profileRepo: profileRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// ListForUser reads every registered creator and the user's expiry for it
// concurrently. Creators whose reads fail are left out.
func (uc *subscriptionUseCase) ListForUser(ctx context.Context, user string, activeOnly bool) ([]*entity.Subscription, error) {
	key, err := units.NormalizeAddress(user)
	if err != nil {
		return nil, err
	}
	userAddr := common.HexToAddress(key)

	creators, err := uc.chain.RegisteredCreators(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registered creators: %w", err)
	}

	results := make([]*entity.Subscription, len(creators))
	var mu sync.Mutex
	var failed []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, creator := range creators {
		g.Go(func() error {
			sub, err := uc.readSubscription(gctx, userAddr, creator)
			if err != nil {
				mu.Lock()
				failed = append(failed, creator.Hex())
				mu.Unlock()
				uc.logger.Warn("Skipping creator %s: %v", creator.Hex(), err)
				return nil
			}
			results[i] = sub
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 && len(failed) == len(creators) {
		return nil, fmt.Errorf("failed to read any creator (%d attempted)", len(creators))
	}

	var addresses []string
	for _, sub := range results {
		if sub != nil && sub.CreatorName == "" {
			addresses = append(addresses, strings.ToLower(sub.Creator))
		}
	}
	names, err := uc.profileRepo.GetNames(addresses)
	if err != nil {
		uc.logger.Warn("Failed to load creator names: %v", err)
	}

	out := make([]*entity.Subscription, 0, len(results))
	for _, sub := range results {
		if sub == nil {
			continue
		}
		if sub.CreatorName == "" {
			sub.CreatorName = names[strings.ToLower(sub.Creator)]
		}
		if sub.CreatorName == "" {
			sub.CreatorName = units.DefaultCreatorName(sub.Creator)
		}
		if activeOnly && !sub.Active {
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}

func (uc *subscriptionUseCase) readSubscription(ctx context.Context, user, creator common.Address) (*entity.Subscription, error) {
	var (
		onChain *models.CreatorOnChain
		expiry  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := uc.chain.Creator(gctx, creator)
		onChain = c
		return err
	})
	g.Go(func() error {
		e, err := uc.chain.SubscriptionExpiry(gctx, user, creator)
		expiry = e
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !onChain.IsRegistered() {
		return nil, ErrNotRegistered
	}

	sub := &entity.Subscription{
		Creator:         creator.Hex(),
		CreatorName:     strings.TrimSpace(onChain.Name),
		SubscriptionFee: models.NewAmount(onChain.SubscriptionFee),
		PlatformShare:   onChain.PlatformShare,
	}
	if expiry > 0 {
		expiresAt := time.Unix(expiry, 0).UTC()
		sub.ExpiresAt = &expiresAt
		sub.Active = expiresAt.After(uc.now())
	}
	return sub, nil
}

// PrepareSubscribe returns a subscribe call carrying the creator's fee.
// Renewal is set when the user already has an active subscription.
func (uc *subscriptionUseCase) PrepareSubscribe(ctx context.Context, user, creator string) (*entity.SubscribeIntent, error) {
	userKey, err := units.NormalizeAddress(user)
	if err != nil {
		return nil, err
	}
	creatorKey, err := units.NormalizeAddress(creator)
	if err != nil {
		return nil, err
	}
	userAddr, creatorAddr := common.HexToAddress(userKey), common.HexToAddress(creatorKey)

	onChain, err := uc.chain.Creator(ctx, creatorAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}
	if !onChain.IsRegistered() {
		return nil, ErrNotRegistered
	}

	subscribed, err := uc.chain.IsSubscribed(ctx, userAddr, creatorAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}

	tx, err := uc.chain.PrepareSubscribe(creatorAddr, onChain.SubscriptionFee)
	if err != nil {
		return nil, err
	}

	onChain.Address = creatorAddr.Hex()
	return &entity.SubscribeIntent{
		Creator:         creatorAddr.Hex(),
		CreatorName:     onChain.DisplayName(""),
		SubscriptionFee: models.NewAmount(onChain.SubscriptionFee),
		Renewal:         subscribed,
		Transaction:     tx,
	}, nil
}

func (uc *subscriptionUseCase) Status(ctx context.Context, user, creator string) (*entity.Status, error) {
	userKey, err := units.NormalizeAddress(user)
	if err != nil {
		return nil, err
	}
	creatorKey, err := units.NormalizeAddress(creator)
	if err != nil {
		return nil, err
	}
	userAddr, creatorAddr := common.HexToAddress(userKey), common.HexToAddress(creatorKey)

	status := &entity.Status{Creator: creatorAddr.Hex(), Subscriber: userAddr.Hex()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := uc.chain.IsSubscribed(gctx, userAddr, creatorAddr)
		if err != nil {
			return fmt.Errorf("failed to check subscription: %w", err)
		}
		status.Subscribed = s
		return nil
	})
	var expiry int64
	g.Go(func() error {
		e, err := uc.chain.SubscriptionExpiry(gctx, userAddr, creatorAddr)
		if err != nil {
			return fmt.Errorf("failed to read expiry: %w", err)
		}
		expiry = e
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if expiry > 0 {
		expiresAt := time.Unix(expiry, 0).UTC()
		status.ExpiresAt = &expiresAt
	}
	return status, nil
}
