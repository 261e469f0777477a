package eth

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// LogQuery selects contract logs. ToBlock zero means the latest block.
type LogQuery struct {
	FromBlock uint64
	ToBlock   uint64
	Topics    [][]common.Hash
}

// rangeErrors are fragments of provider messages that reject a block range as too wide.
var rangeErrors = []string{
	"block range",
	"range too large",
	"query returned more than",
	"response size exceeded",
	"exceed maximum block range",
	"too many results",
	"limit exceeded",
}

func isRangeError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, fragment := range rangeErrors {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// GetLogsPaginated fetches contract logs in windows of LogPageSize blocks.
// A window rejected as too large is halved and retried until it spans one
// block; the reduced size is kept for the remaining windows. Logs removed by
// a reorg are dropped. The result is in chain order.
func (c *Client) GetLogsPaginated(ctx context.Context, q LogQuery) ([]types.Log, error) {
	to := q.ToBlock
	if to == 0 {
		latest, err := c.LatestBlock(ctx)
		if err != nil {
			return nil, err
		}
		to = latest
	}
	if q.FromBlock > to {
		return nil, nil
	}

	window := c.cfg.LogPageSize
	var out []types.Log

	start := q.FromBlock
	for {
		end := start + window - 1
		if end > to || end < start {
			end = to
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		logs, err := c.filterLogs(ctx, start, end, q.Topics)
		if err != nil {
			if isRangeError(err) && end > start {
				window = (end - start + 1) / 2
				continue
			}
			return nil, fmt.Errorf("failed to fetch logs in blocks %d-%d: %w", start, end, err)
		}

		for _, l := range logs {
			if !l.Removed {
				out = append(out, l)
			}
		}

		if end >= to {
			return out, nil
		}
		start = end + 1
	}
}

func (c *Client) filterLogs(ctx context.Context, from, to uint64, topics [][]common.Hash) ([]types.Log, error) {
	cctx, cancel := c.timeout(ctx)
	defer cancel()

	return c.backend.FilterLogs(cctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{c.contract},
		Topics:    topics,
	})
}

// EventTopics returns the topic filter matching any of the given events.
func EventTopics(events ...string) [][]common.Hash {
	ids := make([]common.Hash, 0, len(events))
	for _, name := range events {
		ids = append(ids, contractABI.Events[name].ID)
	}
	return [][]common.Hash{ids}
}

// AddressTopic encodes an address for an indexed topic position.
func AddressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}
