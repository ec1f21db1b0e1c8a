package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"vaultwatch/internal/alert"
	"vaultwatch/internal/metrics"
	"vaultwatch/internal/model"
	"vaultwatch/internal/notify"
	"vaultwatch/internal/queue"
)

// idleSleep is the fixed backoff when the queue is empty.
const idleSleep = time.Second

// allocatorAddress is the vault's own allocation bot. When the author filter
// is enabled, reallocations it sends are discarded without alerting.
var allocatorAddress = common.HexToAddress("0xF404dBb34f7F16BfA315daaA9a8C33c7aBe94eD1")

// SenderLookup resolves the from-address of a transaction.
type SenderLookup interface {
	TransactionSender(ctx context.Context, txHash common.Hash) (common.Address, error)
}

// Config holds processor runtime settings.
type Config struct {
	// FilterAuthor enables the reallocation sender-exclusion filter.
	FilterAuthor bool

	// ChatID is the default destination. ReallocationChatID, when set,
	// receives reallocation alerts instead.
	ChatID             string
	ReallocationChatID string
}

// Processor drains the event queue one event at a time: filter, format,
// route, deliver. Processing is strictly sequential, so alerts leave in
// event order.
type Processor struct {
	cfg       Config
	queue     *queue.EventQueue
	formatter *alert.Formatter
	notifier  notify.Notifier
	sender    SenderLookup
	logger    *zap.Logger
}

func New(cfg Config, q *queue.EventQueue, formatter *alert.Formatter, notifier notify.Notifier, sender SenderLookup, logger *zap.Logger) (*Processor, error) {
	if cfg.ChatID == "" {
		return nil, fmt.Errorf("chat id is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		cfg:       cfg,
		queue:     q,
		formatter: formatter,
		notifier:  notifier,
		sender:    sender,
		logger:    logger,
	}, nil
}

// Run loops for the process lifetime: sleep while idle, otherwise process
// the head event. A processing error stops the loop and propagates.
func (p *Processor) Run(ctx context.Context) error {
	p.logger.Info("event processor started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev, ok := p.queue.Shift()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(idleSleep):
			}
			continue
		}

		if err := p.process(ctx, ev); err != nil {
			return err
		}
	}
}

// Drain processes whatever is currently queued and returns once the queue is
// empty. Used by the backfill command.
func (p *Processor) Drain(ctx context.Context) error {
	for {
		ev, ok := p.queue.Shift()
		if !ok {
			return nil
		}
		if err := p.process(ctx, ev); err != nil {
			return err
		}
	}
}

func (p *Processor) process(ctx context.Context, ev model.QueuedEvent) error {
	p.logger.Info("new event detected",
		zap.Uint64("block", ev.BlockNumber),
		zap.String("event", ev.EventName),
		zap.Strings("args", ev.Args),
	)

	kind := alert.KindOf(ev.EventName)

	if p.cfg.FilterAuthor && kind.Reallocation() {
		sender, err := p.sender.TransactionSender(ctx, common.HexToHash(ev.TxHash))
		if err != nil {
			return fmt.Errorf("transaction sender %s: %w", ev.TxHash, err)
		}
		if sender == allocatorAddress {
			metrics.EventsFiltered.Inc()
			p.logger.Info("ignoring event from vault allocator",
				zap.String("event", ev.EventName),
				zap.String("sender", sender.Hex()),
			)
			return nil
		}
	}

	msg := p.formatter.Format(ctx, ev)
	if msg == "" {
		p.logger.Debug("nothing to send", zap.String("event", ev.EventName))
		metrics.EventsProcessed.Inc()
		return nil
	}

	chatID := p.cfg.ChatID
	chatLabel := "default"
	if kind.Reallocation() && p.cfg.ReallocationChatID != "" {
		chatID = p.cfg.ReallocationChatID
		chatLabel = "reallocation"
	}

	if err := p.notifier.Send(ctx, chatID, msg); err != nil {
		return fmt.Errorf("deliver alert: %w", err)
	}
	metrics.AlertsSent.WithLabelValues(chatLabel).Inc()
	metrics.EventsProcessed.Inc()
	return nil
}
