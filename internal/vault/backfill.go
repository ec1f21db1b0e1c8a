package vault

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vaultwatch/internal/chain"
)

// BlockRange represents an inclusive block range.
type BlockRange struct {
	From uint64
	To   uint64
}

// SplitRange splits a block range into batches of size batchSize.
func SplitRange(from, to, batchSize uint64) ([]BlockRange, error) {
	if batchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if to < from {
		return nil, fmt.Errorf("to block must be >= from block")
	}

	ranges := make([]BlockRange, 0)
	start := from
	for start <= to {
		remaining := to - start + 1
		var end uint64
		if remaining <= batchSize {
			end = to
		} else {
			end = start + batchSize - 1
		}
		ranges = append(ranges, BlockRange{From: start, To: end})
		if end == to {
			break
		}
		start = end + 1
	}

	return ranges, nil
}

// Backfill replays historical vault logs through the same decode-and-queue
// path the live listener uses. It is a one-shot operator tool; the live
// pipeline itself never replays missed events.
type Backfill struct {
	client    *chain.Client
	listener  *Listener
	batchSize uint64
	logger    *zap.Logger
}

func NewBackfill(client *chain.Client, listener *Listener, batchSize uint64, logger *zap.Logger) *Backfill {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backfill{
		client:    client,
		listener:  listener,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run fetches logs for the block range in batches and enqueues each one.
// A zero to-block means the latest block.
func (b *Backfill) Run(ctx context.Context, from, to uint64) error {
	if to == 0 {
		latest, err := b.client.LatestBlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("get latest block: %w", err)
		}
		to = latest
	}

	ranges, err := SplitRange(from, to, b.batchSize)
	if err != nil {
		return err
	}

	for _, blockRange := range ranges {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		b.logger.Info("fetch logs", zap.Uint64("from", blockRange.From), zap.Uint64("to", blockRange.To))

		logs, err := b.client.FilterLogs(ctx, blockRange.From, blockRange.To, b.listener.address)
		if err != nil {
			return fmt.Errorf("filter logs: %w", err)
		}
		for _, log := range logs {
			b.listener.Enqueue(log)
		}

		b.logger.Info("batch complete", zap.Int("logs", len(logs)), zap.Uint64("from", blockRange.From), zap.Uint64("to", blockRange.To))
	}

	return nil
}
