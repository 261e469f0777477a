package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"
	"time"

	"creatorpay/pkg/eth"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/models"
	"creatorpay/pkg/s3"
	"creatorpay/pkg/units"
	"creatorpay/services/creator/internal/entity"
	"creatorpay/services/creator/internal/repo/persistent"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 500
	maxNameLength        = 64
)

var (
	ErrAlreadyRegistered = errors.New("creator already registered")
	ErrNotRegistered     = errors.New("creator not registered")
	ErrNoFunds           = errors.New("no funds available")
	ErrNameTooLong       = fmt.Errorf("name must be at most %d characters", maxNameLength)
)

// ChainReader is the part of *eth.Client the creator dashboard needs.
type ChainReader interface {
	VerifyContract(ctx context.Context) (*eth.ContractStatus, error)
	Creator(ctx context.Context, creator common.Address) (*models.CreatorOnChain, error)
	Subscribers(ctx context.Context, creator common.Address) ([]common.Address, error)
	StartBlock() uint64
	GetLogsPaginated(ctx context.Context, q eth.LogQuery) ([]types.Log, error)
	BlockTime(ctx context.Context, hash common.Hash) (time.Time, error)
	TransactionDetails(ctx context.Context, hash common.Hash) (*eth.TxDetails, error)
	PrepareRegisterCreator(fee *big.Int, platformShare uint64) (*eth.PreparedTx, error)
	PrepareWithdrawCreatorEarnings() (*eth.PreparedTx, error)
}

type CreatorUseCase interface {
	GetDashboard(ctx context.Context, creator string) (*entity.Dashboard, error)
	GetActivities(ctx context.Context, creator string, limit int) ([]*entity.Activity, error)
	PrepareRegistration(ctx context.Context, creator, fee string, platformShare int) (*eth.PreparedTx, error)
	PrepareWithdrawal(ctx context.Context, creator string) (*eth.PreparedTx, error)

	SetName(creator, name string) (*entity.Profile, error)
	GetName(creator string) (string, error)
	HasName(creator string) (bool, error)
	RemoveName(creator string) error
	ListNames() (map[string]string, error)
	UploadAvatar(creator string, fileReader io.Reader, fileKey string, contentType string) (*entity.Profile, error)
}

type creatorUseCase struct {
	chain        ChainReader
	profileRepo  persistent.ProfileRepository
	activityRepo persistent.ActivityRepository
	storage      s3.Storage
	logger       *logger.Logger
}

func NewCreatorUseCase(
	chain ChainReader,
	profileRepo persistent.ProfileRepository,
	activityRepo persistent.ActivityRepository,
	storage s3.Storage,
	logger *logger.Logger,
) CreatorUseCase {
	return &creatorUseCase{
		chain:        chain,
		profileRepo:  profileRepo,
		activityRepo: activityRepo,
		storage:      storage,
		logger:       logger,
	}
}

func (uc *creatorUseCase) GetDashboard(ctx context.Context, creator string) (*entity.Dashboard, error) {
	key, err := units.NormalizeAddress(creator)
	if err != nil {
		return nil, err
	}
	addr := common.HexToAddress(key)

	onChain, err := uc.chain.Creator(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}

	dashboard := &entity.Dashboard{
		Address:         addr.Hex(),
		IsRegistered:    onChain.IsRegistered(),
		SubscriptionFee: models.NewAmount(onChain.SubscriptionFee),
		PlatformShare:   onChain.PlatformShare,
		TotalEarnings:   models.NewAmount(onChain.CreatorBalance),
		PlatformBalance: models.NewAmount(onChain.PlatformBalance),
		Name:            strings.TrimSpace(onChain.Name),
	}

	if dashboard.IsRegistered {
		subscribers, err := uc.chain.Subscribers(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("failed to load subscribers: %w", err)
		}
		dashboard.SubscriberCount = len(subscribers)
	}

	profile, err := uc.profileRepo.GetByAddress(key)
	if err != nil {
		uc.logger.Warn("Failed to load profile for %s: %v", key, err)
	}
	if profile != nil {
		dashboard.AvatarURL = profile.AvatarURL
		if dashboard.Name == "" {
			dashboard.Name = strings.TrimSpace(profile.Name)
		}
	}
	if dashboard.Name == "" {
		dashboard.Name = entity.UnnamedCreator
	}

	return dashboard, nil
}

// GetActivities returns subscription history newest first. Indexed rows are
// used when present; otherwise Subscribed logs are scanned and enriched with
// block time and transaction details.
func (uc *creatorUseCase) GetActivities(ctx context.Context, creator string, limit int) ([]*entity.Activity, error) {
	key, err := units.NormalizeAddress(creator)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}

	activities, err := uc.activityRepo.ListByCreator(key, limit)
	if err != nil {
		uc.logger.Warn("Failed to read indexed activities for %s: %v", key, err)
	} else if len(activities) > 0 {
		return activities, nil
	}

	return uc.scanActivities(ctx, common.HexToAddress(key), limit)
}

func (uc *creatorUseCase) scanActivities(ctx context.Context, creator common.Address, limit int) ([]*entity.Activity, error) {
	topics := eth.EventTopics(eth.EventSubscribed)
	topics = append(topics, nil, []common.Hash{eth.AddressTopic(creator)})

	logs, err := uc.chain.GetLogsPaginated(ctx, eth.LogQuery{
		FromBlock: uc.chain.StartBlock(),
		Topics:    topics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription events: %w", err)
	}

	var events []*eth.SubscribedEvent
	for _, l := range logs {
		ev, err := eth.ParseSubscribed(l)
		if err != nil {
			uc.logger.Warn("Skipping undecodable log %s/%d: %v", l.TxHash.Hex(), l.Index, err)
			continue
		}
		events = append(events, ev)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Raw.BlockNumber != events[j].Raw.BlockNumber {
			return events[i].Raw.BlockNumber > events[j].Raw.BlockNumber
		}
		return events[i].Raw.Index > events[j].Raw.Index
	})
	if len(events) > limit {
		events = events[:limit]
	}

	activities := make([]*entity.Activity, len(events))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, ev := range events {
		activities[i] = &entity.Activity{
			Subscriber:  ev.User.Hex(),
			ExpiresAt:   time.Unix(ev.ExpiresAt, 0).UTC(),
			BlockNumber: ev.Raw.BlockNumber,
			TxHash:      ev.Raw.TxHash.Hex(),
			LogIndex:    ev.Raw.Index,
			AmountPaid:  models.NewAmount(nil),
		}
		g.Go(func() error {
			uc.enrich(gctx, activities[i], ev.Raw)
			return nil
		})
	}
	_ = g.Wait()

	return activities, nil
}

// enrich fills block time and payment details; lookups that fail leave the
// zero values in place.
func (uc *creatorUseCase) enrich(ctx context.Context, activity *entity.Activity, l types.Log) {
	if blockTime, err := uc.chain.BlockTime(ctx, l.BlockHash); err == nil {
		activity.BlockTime = &blockTime
	} else {
		uc.logger.Debug("No block time for %s: %v", l.BlockHash.Hex(), err)
	}

	if tx, err := uc.chain.TransactionDetails(ctx, l.TxHash); err == nil {
		activity.AmountPaid = models.NewAmount(tx.Value)
		activity.GasLimit = tx.GasLimit
	} else {
		uc.logger.Debug("No transaction details for %s: %v", l.TxHash.Hex(), err)
	}
}

func (uc *creatorUseCase) PrepareRegistration(ctx context.Context, creator, fee string, platformShare int) (*eth.PreparedTx, error) {
	key, err := units.NormalizeAddress(creator)
	if err != nil {
		return nil, err
	}

	wei, err := models.ValidateRegistration(fee, platformShare)
	if err != nil {
		return nil, err
	}

	if _, err := uc.chain.VerifyContract(ctx); err != nil {
		return nil, err
	}

	onChain, err := uc.chain.Creator(ctx, common.HexToAddress(key))
	if err != nil {
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}
	if onChain.IsRegistered() {
		return nil, ErrAlreadyRegistered
	}

	return uc.chain.PrepareRegisterCreator(wei, uint64(platformShare))
}

func (uc *creatorUseCase) PrepareWithdrawal(ctx context.Context, creator string) (*eth.PreparedTx, error) {
	key, err := units.NormalizeAddress(creator)
	if err != nil {
		return nil, err
	}

	onChain, err := uc.chain.Creator(ctx, common.HexToAddress(key))
	if err != nil {
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}
	if !onChain.IsRegistered() {
		return nil, ErrNotRegistered
	}
	if onChain.CreatorBalance == nil || onChain.CreatorBalance.Sign() == 0 {
		return nil, ErrNoFunds
	}

	return uc.chain.PrepareWithdrawCreatorEarnings()
}

// SetName stores a display name. Blank names are ignored and the current
// profile is returned unchanged.
func (uc *creatorUseCase) SetName(creator, name string) (*entity.Profile, error) {
	key, err := units.NormalizeAddress(creator)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if len([]rune(name)) > maxNameLength {
		return nil, ErrNameTooLong
	}
	if name != "" {
		if err := uc.profileRepo.SaveName(key, name); err != nil {
			uc.logger.Error("Failed to save creator name: %v", err)
			return nil, fmt.Errorf("failed to save name")
		}
	}

	profile, err := uc.profileRepo.GetByAddress(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		profile = &entity.Profile{Address: key}
	}
	return profile, nil
}

func (uc *creatorUseCase) GetName(creator string) (string, error) {
	key, err := units.NormalizeAddress(creator)
	if err != nil {
		return "", err
	}

	profile, err := uc.profileRepo.GetByAddress(key)
	if err != nil {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}
	if profile != nil && strings.TrimSpace(profile.Name) != "" {
		return profile.Name, nil
	}
	return units.DefaultCreatorName(common.HexToAddress(key).Hex()), nil
}

func (uc *creatorUseCase) HasName(creator string) (bool, error) {
	key, err := units.NormalizeAddress(creator)
	if err != nil {
		return false, err
	}

	profile, err := uc.profileRepo.GetByAddress(key)
	if err != nil {
		return false, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile != nil && strings.TrimSpace(profile.Name) != "", nil
}

func (uc *creatorUseCase) RemoveName(creator string) error {
	key, err := units.NormalizeAddress(creator)
	if err != nil {
		return err
	}
	if err := uc.profileRepo.ClearName(key); err != nil {
		uc.logger.Error("Failed to clear creator name: %v", err)
		return fmt.Errorf("failed to remove name")
	}
	return nil
}

// ListNames maps lowercase address to name for every profile with a name.
func (uc *creatorUseCase) ListNames() (map[string]string, error) {
	profiles, err := uc.profileRepo.ListNamed()
	if err != nil {
		return nil, fmt.Errorf("failed to list names: %w", err)
	}

	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		if name := strings.TrimSpace(p.Name); name != "" {
			names[p.Address] = name
		}
	}
	return names, nil
}

func (uc *creatorUseCase) UploadAvatar(creator string, fileReader io.Reader, fileKey string, contentType string) (*entity.Profile, error) {
	key, err := units.NormalizeAddress(creator)
	if err != nil {
		return nil, err
	}

	avatarURL, err := uc.storage.UploadFile(fileKey, fileReader, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload avatar: %v", err)
		return nil, fmt.Errorf("failed to upload avatar")
	}

	if err := uc.profileRepo.SaveAvatar(key, avatarURL); err != nil {
		uc.logger.Error("Failed to save avatar: %v", err)
		if delErr := uc.storage.DeleteFile(fileKey); delErr != nil {
			uc.logger.Warn("Failed to delete orphaned avatar %s: %v", fileKey, delErr)
		}
		return nil, fmt.Errorf("failed to update profile")
	}

	profile, err := uc.profileRepo.GetByAddress(key)
	if err != nil || profile == nil {
		return &entity.Profile{Address: key, AvatarURL: avatarURL}, nil
	}
	return profile, nil
}
