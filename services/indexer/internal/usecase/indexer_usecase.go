package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"creatorpay/pkg/eth"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/models"
	"creatorpay/pkg/queue"
	"creatorpay/services/indexer/internal/entity"
	"creatorpay/services/indexer/internal/repo/cache"
	"creatorpay/services/indexer/internal/repo/persistent"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultCursorName = "subscription_contract"
	DefaultMaxRange   = 50000
)

// ChainReader is the part of *eth.Client the indexer needs.
type ChainReader interface {
	LatestBlock(ctx context.Context) (uint64, error)
	GetLogsPaginated(ctx context.Context, q eth.LogQuery) ([]types.Log, error)
	TransactionDetails(ctx context.Context, hash common.Hash) (*eth.TxDetails, error)
	BlockTime(ctx context.Context, hash common.Hash) (time.Time, error)
	StartBlock() uint64
}

type IndexerUseCase interface {
	Sync(ctx context.Context) (*entity.SyncResult, error)
	Status(ctx context.Context) (*entity.Status, error)
}

type Options struct {
	CursorName    string
	Confirmations uint64
	// MaxRange caps the number of blocks covered by one Sync.
	MaxRange uint64
}

type indexerUseCase struct {
	chain     ChainReader
	indexRepo persistent.IndexRepository
	publisher queue.Publisher
	discovery cache.DiscoveryCache
	opts      Options
	logger    *logger.Logger
	now       func() time.Time

	running sync.Mutex

	stateMu    sync.RWMutex
	lastRunAt  *time.Time
	lastError  string
	lastResult *entity.SyncResult
}

func NewIndexerUseCase(
	chain ChainReader,
	indexRepo persistent.IndexRepository,
	publisher queue.Publisher,
	discovery cache.DiscoveryCache,
	opts Options,
	logger *logger.Logger,
) IndexerUseCase {
	if opts.CursorName == "" {
		opts.CursorName = DefaultCursorName
	}
	if opts.MaxRange == 0 {
		opts.MaxRange = DefaultMaxRange
	}
	return &indexerUseCase{
		chain:     chain,
		indexRepo: indexRepo,
		publisher: publisher,
		discovery: discovery,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// nextBlock is the first block not yet indexed.
func (uc *indexerUseCase) nextBlock() (uint64, error) {
	cursor, ok, err := uc.indexRepo.GetCursor(uc.opts.CursorName)
	if err != nil {
		return 0, fmt.Errorf("failed to read cursor: %w", err)
	}
	if !ok {
		return uc.chain.StartBlock(), nil
	}
	return cursor + 1, nil
}

func (uc *indexerUseCase) safeHead(ctx context.Context) (latest, safe uint64, err error) {
	latest, err = uc.chain.LatestBlock(ctx)
	if err != nil {
		return 0, 0, err
	}
	if latest < uc.opts.Confirmations {
		return latest, 0, nil
	}
	return latest, latest - uc.opts.Confirmations, nil
}

// Sync indexes the next confirmed block range. A call made while another
// run is in progress returns immediately with Skipped set.
func (uc *indexerUseCase) Sync(ctx context.Context) (*entity.SyncResult, error) {
	if !uc.running.TryLock() {
		uc.logger.Debug("Sync already running, skipping")
		return &entity.SyncResult{Skipped: true}, nil
	}
	defer uc.running.Unlock()

	result, err := uc.sync(ctx)
	uc.record(result, err)
	return result, err
}

func (uc *indexerUseCase) sync(ctx context.Context) (*entity.SyncResult, error) {
	from, err := uc.nextBlock()
	if err != nil {
		return nil, err
	}
	_, safe, err := uc.safeHead(ctx)
	if err != nil {
		return nil, err
	}

	result := &entity.SyncResult{From: from, To: safe}
	if from > safe {
		return result, nil
	}
	to := safe
	if to-from+1 > uc.opts.MaxRange {
		to = from + uc.opts.MaxRange - 1
	}
	result.To = to

	logs, err := uc.chain.GetLogsPaginated(ctx, eth.LogQuery{
		FromBlock: from,
		ToBlock:   to,
		Topics:    eth.EventTopics(eth.EventCreatorRegistered, eth.EventSubscribed, eth.EventCreatorNameUpdated),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs: %w", err)
	}

	batch := uc.decode(logs)
	batch.From, batch.To = from, to
	uc.enrich(ctx, batch, logs)

	// Events go out before the cursor moves, so a broker failure leaves the
	// range to be retried. Consumers drop redelivered events by tx hash and log index.
	if err := uc.publish(ctx, batch.Events); err != nil {
		return nil, fmt.Errorf("failed to publish blocks %d-%d: %w", from, to, err)
	}

	if err := uc.indexRepo.Apply(uc.opts.CursorName, batch); err != nil {
		return nil, fmt.Errorf("failed to store blocks %d-%d: %w", from, to, err)
	}

	result.Registrations = len(batch.Registrations)
	result.Subscriptions = len(batch.Subscriptions)
	result.Names = len(batch.Names)

	if result.Registrations > 0 || result.Names > 0 {
		if err := uc.discovery.Invalidate(ctx); err != nil {
			uc.logger.Warn("Failed to invalidate discovery cache: %v", err)
		}
	}

	if len(batch.Events) > 0 {
		uc.logger.Info("Indexed blocks %d-%d: %d registrations, %d subscriptions, %d names",
			from, to, result.Registrations, result.Subscriptions, result.Names)
	}
	return result, nil
}

func (uc *indexerUseCase) decode(logs []types.Log) *entity.Batch {
	batch := &entity.Batch{}
	observed := uc.now().UTC()

	for _, l := range logs {
		event, err := eth.ToChainEvent(l)
		if err != nil {
			uc.logger.Warn("Skipping undecodable log tx=%s index=%d: %v", l.TxHash.Hex(), l.Index, err)
			continue
		}
		event.ObservedAt = observed
		batch.Events = append(batch.Events, event)

		switch event.Kind {
		case models.EventCreatorRegistered:
			batch.Registrations = append(batch.Registrations, &entity.Registration{
				Creator:       event.Creator,
				Fee:           event.Fee,
				PlatformShare: event.PlatformShare,
				BlockNumber:   event.BlockNumber,
				TxHash:        event.TxHash,
				LogIndex:      event.LogIndex,
			})
		case models.EventSubscribed:
			batch.Subscriptions = append(batch.Subscriptions, &entity.Subscription{
				Subscriber:  event.User,
				Creator:     event.Creator,
				ExpiresAt:   event.ExpiresAt,
				BlockNumber: event.BlockNumber,
				TxHash:      event.TxHash,
				LogIndex:    event.LogIndex,
			})
		case models.EventCreatorNameUpdated:
			batch.Names = append(batch.Names, &entity.NameUpdate{
				Creator:     event.Creator,
				Name:        event.Name,
				BlockNumber: event.BlockNumber,
			})
		}
	}

	batch.Names = latestNames(batch.Names)
	return batch
}

// latestNames keeps the last update per creator; logs arrive in chain order.
func latestNames(updates []*entity.NameUpdate) []*entity.NameUpdate {
	if len(updates) < 2 {
		return updates
	}
	last := make(map[string]int, len(updates))
	for i, u := range updates {
		last[u.Creator] = i
	}
	out := make([]*entity.NameUpdate, 0, len(last))
	for i, u := range updates {
		if last[u.Creator] == i {
			out = append(out, u)
		}
	}
	return out
}

// enrich fills in amount, gas limit and block time of subscription rows.
// Lookups that fail leave the fields empty; the row is still stored.
func (uc *indexerUseCase) enrich(ctx context.Context, batch *entity.Batch, logs []types.Log) {
	if len(batch.Subscriptions) == 0 {
		return
	}

	blockHashes := make(map[string]common.Hash, len(logs))
	for _, l := range logs {
		blockHashes[l.TxHash.Hex()] = l.BlockHash
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, sub := range batch.Subscriptions {
		g.Go(func() error {
			hash := common.HexToHash(sub.TxHash)
			if tx, err := uc.chain.TransactionDetails(gctx, hash); err != nil {
				uc.logger.Warn("Failed to load transaction %s: %v", sub.TxHash, err)
			} else {
				sub.Amount = tx.Value.String()
				sub.GasLimit = tx.GasLimit
			}

			if bh, ok := blockHashes[sub.TxHash]; ok && bh != (common.Hash{}) {
				if ts, err := uc.chain.BlockTime(gctx, bh); err != nil {
					uc.logger.Warn("Failed to load block time for %s: %v", sub.TxHash, err)
				} else {
					sub.BlockTime = &ts
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (uc *indexerUseCase) publish(ctx context.Context, events []*models.ChainEvent) error {
	for _, event := range events {
		if err := uc.publisher.PublishChainEvent(ctx, event); err != nil {
			return fmt.Errorf("%s event tx=%s: %w", event.Kind, event.TxHash, err)
		}
	}
	return nil
}

func (uc *indexerUseCase) record(result *entity.SyncResult, err error) {
	uc.stateMu.Lock()
	defer uc.stateMu.Unlock()

	now := uc.now().UTC()
	uc.lastRunAt = &now
	if err != nil {
		uc.lastError = err.Error()
		uc.logger.Error("Sync failed: %v", err)
		return
	}
	uc.lastError = ""
	uc.lastResult = result
}

func (uc *indexerUseCase) Status(ctx context.Context) (*entity.Status, error) {
	next, err := uc.nextBlock()
	if err != nil {
		return nil, err
	}
	latest, safe, err := uc.safeHead(ctx)
	if err != nil {
		return nil, err
	}

	status := &entity.Status{Latest: latest, Safe: safe}
	if next > 0 {
		status.Cursor = next - 1
	}
	if safe > status.Cursor {
		status.Lag = safe - status.Cursor
	}

	if uc.running.TryLock() {
		uc.running.Unlock()
	} else {
		status.Running = true
	}

	uc.stateMu.RLock()
	status.LastRunAt = uc.lastRunAt
	status.LastError = uc.lastError
	status.LastResult = uc.lastResult
	uc.stateMu.RUnlock()

	return status, nil
}
