package vault

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"vaultwatch/internal/chain"
	"vaultwatch/internal/metrics"
	"vaultwatch/internal/queue"
)

// Listener subscribes to every log of the watched vault, decodes them, and
// feeds the event queue. Decode failures are logged and dropped; a failed
// subscription is fatal and left to external supervision.
type Listener struct {
	client  *chain.Client
	decoder *Decoder
	queue   *queue.EventQueue
	address common.Address
	logger  *zap.Logger
}

func NewListener(client *chain.Client, decoder *Decoder, q *queue.EventQueue, address common.Address, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener{
		client:  client,
		decoder: decoder,
		queue:   q,
		address: address,
		logger:  logger,
	}
}

// Run blocks until the subscription fails or ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	logs := make(chan types.Log, 128)
	sub, err := l.client.SubscribeLogs(ctx, l.address, logs)
	if err != nil {
		return fmt.Errorf("subscribe logs: %w", err)
	}
	defer sub.Unsubscribe()

	l.logger.Info("event listener started", zap.String("vault", l.address.Hex()))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("log subscription: %w", err)
		case log := <-logs:
			l.Enqueue(log)
		}
	}
}

// Enqueue decodes a single raw log and pushes it onto the queue. Logs that
// match no known event signature are dropped.
func (l *Listener) Enqueue(log types.Log) {
	ev, err := l.decoder.DecodeLog(log)
	if err != nil {
		metrics.DecodeFailures.Inc()
		l.logger.Warn("could not decode log",
			zap.String("tx", log.TxHash.Hex()),
			zap.Uint64("block", log.BlockNumber),
			zap.Error(err),
		)
		return
	}

	l.queue.Push(ev)
	metrics.EventsReceived.Inc()
	l.logger.Info("event queued",
		zap.String("event", ev.EventName),
		zap.Uint64("block", ev.BlockNumber),
		zap.String("tx", ev.TxHash),
	)
}
