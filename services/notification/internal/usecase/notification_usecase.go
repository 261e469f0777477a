package usecase

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"creatorpay/pkg/logger"
	"creatorpay/pkg/models"
	"creatorpay/pkg/units"
	"creatorpay/services/notification/internal/entity"
	"creatorpay/services/notification/internal/repo/cache"
	"creatorpay/services/notification/internal/repo/persistent"

	"github.com/ethereum/go-ethereum/common"
)

const (
	DefaultLimit = 20
	MaxLimit     = cache.MaxNotifications
)

// OwnerReader resolves the contract owner, who is told about new creators.
type OwnerReader interface {
	Owner(ctx context.Context) (common.Address, error)
}

type NotificationUseCase interface {
	HandleChainEvent(ctx context.Context, event *models.ChainEvent) error
	List(ctx context.Context, address string, limit, offset int) (*entity.Page, error)
	MarkAllRead(ctx context.Context, address string) error
}

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	store            cache.NotificationStore
	chain            OwnerReader
	logger           *logger.Logger
	now              func() time.Time

	ownerMu sync.Mutex
	owner   string
}

func NewNotificationUseCase(notificationRepo persistent.NotificationRepository, store cache.NotificationStore, chain OwnerReader, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		notificationRepo: notificationRepo,
		store:            store,
		chain:            chain,
		logger:           logger,
		now:              time.Now,
	}
}

// HandleChainEvent turns an indexed contract event into inbox entries.
// Redelivered events are recognised by tx hash and log index and ignored.
func (uc *notificationUseCase) HandleChainEvent(ctx context.Context, event *models.ChainEvent) error {
	var build func(context.Context, *models.ChainEvent) ([]*entity.Notification, error)
	switch event.Kind {
	case models.EventSubscribed:
		build = uc.subscribedNotifications
	case models.EventCreatorRegistered:
		build = uc.registeredNotifications
	default:
		return nil
	}

	eventID := fmt.Sprintf("%s:%d", event.TxHash, event.LogIndex)
	fresh, err := uc.store.MarkProcessed(ctx, eventID)
	if err != nil {
		return err
	}
	if !fresh {
		uc.logger.Debug("Skipping already processed event %s", eventID)
		return nil
	}

	notifications, err := build(ctx, event)
	if err == nil {
		err = uc.pushAll(ctx, eventID, notifications)
	}
	if err != nil {
		if ferr := uc.store.Forget(ctx, eventID); ferr != nil {
			uc.logger.Warn("Failed to release event %s: %v", eventID, ferr)
		}
		return err
	}

	uc.logger.Info("Delivered %d notifications for %s tx=%s", len(notifications), event.Kind, event.TxHash)
	return nil
}

// pushAll delivers each notification at most once. A recipient whose entry
// landed before a failed sibling is skipped when the event comes back.
func (uc *notificationUseCase) pushAll(ctx context.Context, eventID string, notifications []*entity.Notification) error {
	for _, n := range notifications {
		n.ID = deliveryID(eventID, n)
		fresh, err := uc.store.MarkProcessed(ctx, n.ID)
		if err != nil {
			return fmt.Errorf("failed to notify %s: %w", n.Recipient, err)
		}
		if !fresh {
			uc.logger.Debug("Skipping already delivered notification %s", n.ID)
			continue
		}
		if err := uc.store.Push(ctx, n); err != nil {
			if ferr := uc.store.Forget(ctx, n.ID); ferr != nil {
				uc.logger.Warn("Failed to release notification %s: %v", n.ID, ferr)
			}
			return fmt.Errorf("failed to notify %s: %w", n.Recipient, err)
		}
	}
	return nil
}

// deliveryID keys one notification by tx hash, log index, recipient and type.
// The type keeps a self-subscription's two entries apart.
func deliveryID(eventID string, n *entity.Notification) string {
	return fmt.Sprintf("%s:%s:%s", eventID, n.Recipient, n.Type)
}

func (uc *notificationUseCase) creatorName(address string) string {
	name, err := uc.notificationRepo.GetCreatorName(address)
	if err != nil {
		uc.logger.Warn("Failed to get creator name for %s: %v", address, err)
	}
	if name == "" {
		return units.DefaultCreatorName(address)
	}
	return name
}

func (uc *notificationUseCase) subscribedNotifications(ctx context.Context, event *models.ChainEvent) ([]*entity.Notification, error) {
	if event.Creator == "" || event.User == "" {
		return nil, fmt.Errorf("invalid subscribed event tx=%s: missing creator or user", event.TxHash)
	}

	now := uc.now().UTC()
	expires := time.Unix(event.ExpiresAt, 0).UTC()
	data := map[string]interface{}{
		"creator":    event.Creator,
		"subscriber": event.User,
		"expires_at": event.ExpiresAt,
		"tx_hash":    event.TxHash,
	}

	return []*entity.Notification{
		{
			Recipient: event.Creator,
			Title:     "New Subscriber!",
			Message:   fmt.Sprintf("%s subscribed to you", units.ShortAddress(event.User)),
			Type:      entity.TypeNewSubscriber,
			Data:      data,
			CreatedAt: now,
		},
		{
			Recipient: event.User,
			Title:     "Subscription active",
			Message:   fmt.Sprintf("Your subscription to %s is active until %s", uc.creatorName(event.Creator), expires.Format("2006-01-02 15:04 UTC")),
			Type:      entity.TypeSubscriptionActive,
			Data:      data,
			CreatedAt: now,
		},
	}, nil
}

func (uc *notificationUseCase) registeredNotifications(ctx context.Context, event *models.ChainEvent) ([]*entity.Notification, error) {
	owner, err := uc.ownerAddress(ctx)
	if err != nil {
		return nil, err
	}

	fee := "0.0000"
	if wei, ok := new(big.Int).SetString(event.Fee, 10); ok {
		fee = units.FormatEth(wei)
	}

	return []*entity.Notification{{
		Recipient: owner,
		Title:     "New Creator",
		Message: fmt.Sprintf("%s registered with a %s ETH fee and %d%% platform share",
			uc.creatorName(event.Creator), fee, event.PlatformShare),
		Type: entity.TypeCreatorRegistered,
		Data: map[string]interface{}{
			"creator":        event.Creator,
			"fee":            event.Fee,
			"platform_share": event.PlatformShare,
			"tx_hash":        event.TxHash,
		},
		CreatedAt: uc.now().UTC(),
	}}, nil
}

// ownerAddress reads owner() once and keeps it; ownership is not expected to move.
func (uc *notificationUseCase) ownerAddress(ctx context.Context) (string, error) {
	uc.ownerMu.Lock()
	defer uc.ownerMu.Unlock()

	if uc.owner != "" {
		return uc.owner, nil
	}
	owner, err := uc.chain.Owner(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read owner: %w", err)
	}
	uc.owner = units.AddressKey(owner)
	return uc.owner, nil
}

func (uc *notificationUseCase) List(ctx context.Context, address string, limit, offset int) (*entity.Page, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	notifications, total, err := uc.store.List(ctx, address, limit, offset)
	if err != nil {
		return nil, err
	}

	readAt, err := uc.store.ReadAt(ctx, address)
	if err != nil {
		uc.logger.Warn("Failed to get read marker for %s: %v", address, err)
	}

	page := &entity.Page{Notifications: notifications, Total: total}
	for _, n := range notifications {
		n.Read = !n.CreatedAt.After(readAt)
		if !n.Read {
			page.Unread++
		}
	}
	return page, nil
}

func (uc *notificationUseCase) MarkAllRead(ctx context.Context, address string) error {
	return uc.store.MarkAllRead(ctx, address, uc.now().UTC())
}
