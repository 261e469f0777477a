package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"creatorpay/pkg/eth"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/models"
	"creatorpay/pkg/units"
	"creatorpay/services/discovery/internal/entity"
	"creatorpay/services/discovery/internal/repo/cache"
	"creatorpay/services/discovery/internal/repo/persistent"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/errgroup"
)

// ChainReader is the part of *eth.Client discovery reads from.
type ChainReader interface {
	VerifyContract(ctx context.Context) (*eth.ContractStatus, error)
	StartBlock() uint64
	GetLogsPaginated(ctx context.Context, q eth.LogQuery) ([]types.Log, error)
	CreatorName(ctx context.Context, creator common.Address) (string, error)
	RegisteredCreators(ctx context.Context) ([]common.Address, error)
	Creator(ctx context.Context, creator common.Address) (*models.CreatorOnChain, error)
	IsSubscribed(ctx context.Context, user, creator common.Address) (bool, error)
}

type DiscoveryUseCase interface {
	ListCreators(ctx context.Context, viewer string) (*entity.Listing, error)
	GetCreatorCard(ctx context.Context, creator, viewer string) (*entity.CreatorCard, error)
	ContractStatus(ctx context.Context) (*eth.ContractStatus, error)
	Refresh(ctx context.Context) error
}

type Options struct {
	DemoFallback bool
	// NameLookups bounds concurrent getCreatorName calls.
	NameLookups int
}

type discoveryUseCase struct {
	chain       ChainReader
	profileRepo persistent.ProfileRepository
	cache       cache.ListingCache
	opts        Options
	logger      *logger.Logger
	now         func() time.Time
}

// NewDiscoveryUseCase builds the discovery use case. listingCache may be nil.
func NewDiscoveryUseCase(
	chain ChainReader,
	profileRepo persistent.ProfileRepository,
	listingCache cache.ListingCache,
	opts Options,
	logger *logger.Logger,
) DiscoveryUseCase {
	if opts.NameLookups <= 0 {
		opts.NameLookups = 8
	}
	return &discoveryUseCase{
		chain:       chain,
		profileRepo: profileRepo,
		cache:       listingCache,
		opts:        opts,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *discoveryUseCase) ListCreators(ctx context.Context, viewer string) (*entity.Listing, error) {
	listing := uc.cachedListing(ctx)
	if viewer == "" {
		return listing, nil
	}
	return uc.withViewer(ctx, listing, viewer), nil
}

func (uc *discoveryUseCase) cachedListing(ctx context.Context) *entity.Listing {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx)
		if err != nil {
			uc.logger.Warn("Discovery cache unavailable: %v", err)
		} else if cached != nil {
			return cached
		}
	}

	listing := uc.buildListing(ctx)

	// Demo listings stand in for a failing chain and are rebuilt on the next request.
	if uc.cache != nil && listing.Source != entity.SourceDemo {
		if err := uc.cache.Set(ctx, listing); err != nil {
			uc.logger.Warn("Failed to cache discovery listing: %v", err)
		}
	}
	return listing
}

func (uc *discoveryUseCase) buildListing(ctx context.Context) *entity.Listing {
	listing := &entity.Listing{Source: entity.SourceEvents, GeneratedAt: uc.now().UTC()}

	if _, err := uc.chain.VerifyContract(ctx); err != nil {
		uc.logger.Error("Contract verification failed: %v", err)
		listing.ContractError = err.Error()
		listing.Source = entity.SourceDemo
		listing.Creators = uc.fallbackCreators()
		return listing
	}

	set := newAddressSet()
	if err := uc.registeredFromEvents(ctx, set); err != nil {
		uc.logger.Warn("Failed to load %s events: %v", eth.EventCreatorRegistered, err)
	}
	fromEvents := len(set.list)

	registered, err := uc.chain.RegisteredCreators(ctx)
	if err != nil {
		uc.logger.Warn("Failed to reconcile with %s: %v", eth.MethodGetRegisteredCreators, err)
	}
	set.add(registered...)
	addresses := set.list

	if len(addresses) == 0 {
		listing.Source = entity.SourceDemo
		listing.Creators = uc.fallbackCreators()
		return listing
	}
	if fromEvents == 0 {
		listing.Source = entity.SourceContract
	}

	listing.Creators = uc.resolveNames(ctx, addresses)
	return listing
}

// registeredFromEvents adds creators to set in the order of their first
// CreatorRegistered log. Logs that fail to decode are skipped.
func (uc *discoveryUseCase) registeredFromEvents(ctx context.Context, set *addressSet) error {
	logs, err := uc.chain.GetLogsPaginated(ctx, eth.LogQuery{
		FromBlock: uc.chain.StartBlock(),
		Topics:    eth.EventTopics(eth.EventCreatorRegistered),
	})
	if err != nil {
		return err
	}

	for _, l := range logs {
		ev, err := eth.ParseCreatorRegistered(l)
		if err != nil {
			uc.logger.Warn("Skipping undecodable log %s/%d: %v", l.TxHash.Hex(), l.Index, err)
			continue
		}
		set.add(ev.Creator)
	}
	return nil
}

// addressSet keeps addresses unique in first-seen order.
type addressSet struct {
	seen map[common.Address]struct{}
	list []common.Address
}

func newAddressSet() *addressSet {
	return &addressSet{seen: make(map[common.Address]struct{})}
}

func (s *addressSet) add(addrs ...common.Address) {
	for _, a := range addrs {
		if _, ok := s.seen[a]; ok {
			continue
		}
		s.seen[a] = struct{}{}
		s.list = append(s.list, a)
	}
}

// resolveNames picks each display name from, in order: the latest
// CreatorNameUpdated event, getCreatorName, the stored profile and finally
// the short address.
func (uc *discoveryUseCase) resolveNames(ctx context.Context, addresses []common.Address) []models.Creator {
	names := make([]string, len(addresses))

	eventNames := uc.eventNames(ctx)
	for i, addr := range addresses {
		names[i] = eventNames[units.AddressKey(addr)]
	}

	var unavailable atomic.Bool
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.opts.NameLookups)
	for i, addr := range addresses {
		if names[i] != "" {
			continue
		}
		g.Go(func() error {
			if unavailable.Load() {
				return nil
			}
			name, err := uc.chain.CreatorName(gctx, addr)
			if err != nil {
				if errors.Is(err, eth.ErrMethodUnavailable) {
					unavailable.Store(true)
				}
				uc.logger.Debug("No contract name for %s: %v", addr.Hex(), err)
				return nil
			}
			names[i] = name
			return nil
		})
	}
	_ = g.Wait()

	var missing []string
	for i, addr := range addresses {
		if names[i] == "" {
			missing = append(missing, units.AddressKey(addr))
		}
	}
	if len(missing) > 0 {
		profiles, err := uc.profileRepo.GetByAddresses(missing)
		if err != nil {
			uc.logger.Warn("Failed to load creator profiles: %v", err)
		}
		for i, addr := range addresses {
			if names[i] != "" {
				continue
			}
			if p := profiles[units.AddressKey(addr)]; p != nil {
				names[i] = strings.TrimSpace(p.Name)
			}
		}
	}

	out := make([]models.Creator, len(addresses))
	for i, addr := range addresses {
		name := names[i]
		if name == "" {
			name = units.DefaultCreatorName(addr.Hex())
		}
		out[i] = models.Creator{Address: addr.Hex(), Name: name}
	}
	return out
}

// eventNames maps lowercase creator address to the name of its most recent
// CreatorNameUpdated event.
func (uc *discoveryUseCase) eventNames(ctx context.Context) map[string]string {
	names := map[string]string{}

	logs, err := uc.chain.GetLogsPaginated(ctx, eth.LogQuery{
		FromBlock: uc.chain.StartBlock(),
		Topics:    eth.EventTopics(eth.EventCreatorNameUpdated),
	})
	if err != nil {
		uc.logger.Debug("Name events unavailable: %v", err)
		return names
	}

	for _, l := range logs {
		ev, err := eth.ParseCreatorNameUpdated(l)
		if err != nil {
			continue
		}
		if name := strings.TrimSpace(ev.Name); name != "" {
			names[units.AddressKey(ev.Creator)] = name
		}
	}
	return names
}

// withViewer appends the viewer when it is a registered creator the listing
// does not contain yet. Demo entries are dropped once a real creator is known.
func (uc *discoveryUseCase) withViewer(ctx context.Context, listing *entity.Listing, viewer string) *entity.Listing {
	key, err := units.NormalizeAddress(viewer)
	if err != nil || listing.ContractError != "" {
		return listing
	}
	for _, c := range listing.Creators {
		if !c.Demo && strings.EqualFold(c.Address, key) {
			return listing
		}
	}

	addr := common.HexToAddress(key)
	onChain, err := uc.chain.Creator(ctx, addr)
	if err != nil {
		uc.logger.Warn("Failed to check viewer registration for %s: %v", key, err)
		return listing
	}
	if !onChain.IsRegistered() {
		return listing
	}

	out := *listing
	out.Creators = make([]models.Creator, 0, len(listing.Creators)+1)
	for _, c := range listing.Creators {
		if !c.Demo {
			out.Creators = append(out.Creators, c)
		}
	}
	out.Creators = append(out.Creators, uc.resolveNames(ctx, []common.Address{addr})...)
	if out.Source == entity.SourceDemo {
		out.Source = entity.SourceContract
	}
	return &out
}

func (uc *discoveryUseCase) GetCreatorCard(ctx context.Context, creator, viewer string) (*entity.CreatorCard, error) {
	key, err := units.NormalizeAddress(creator)
	if err != nil {
		return nil, err
	}
	addr := common.HexToAddress(key)

	var viewerAddr *common.Address
	if viewer != "" {
		if v, err := units.NormalizeAddress(viewer); err == nil {
			a := common.HexToAddress(v)
			viewerAddr = &a
		}
	}

	var (
		onChain    *models.CreatorOnChain
		subscribed bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := uc.chain.Creator(gctx, addr)
		if err != nil {
			return fmt.Errorf("failed to load creator: %w", err)
		}
		onChain = c
		return nil
	})
	if viewerAddr != nil {
		g.Go(func() error {
			s, err := uc.chain.IsSubscribed(gctx, *viewerAddr, addr)
			if err != nil {
				return fmt.Errorf("failed to check subscription: %w", err)
			}
			subscribed = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.GetByAddress(key)
	if err != nil {
		uc.logger.Warn("Failed to load profile for %s: %v", key, err)
	}
	provided := ""
	card := &entity.CreatorCard{
		Address:         addr.Hex(),
		OnChainName:     strings.TrimSpace(onChain.Name),
		Registered:      onChain.IsRegistered(),
		SubscriptionFee: models.NewAmount(onChain.SubscriptionFee),
		PlatformShare:   onChain.PlatformShare,
		CreatorBalance:  models.NewAmount(onChain.CreatorBalance),
		PlatformBalance: models.NewAmount(onChain.PlatformBalance),
		Subscribed:      subscribed,
	}
	if profile != nil {
		provided = profile.Name
		card.AvatarURL = profile.AvatarURL
	}
	onChain.Address = addr.Hex()
	card.DisplayName = onChain.DisplayName(provided)

	return card, nil
}

func (uc *discoveryUseCase) ContractStatus(ctx context.Context) (*eth.ContractStatus, error) {
	return uc.chain.VerifyContract(ctx)
}

func (uc *discoveryUseCase) Refresh(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Invalidate(ctx)
}
