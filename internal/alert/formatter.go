package alert

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"vaultwatch/internal/model"
	"vaultwatch/internal/vault"
)

// Labeler annotates market identifiers with resolved labels. An empty
// annotation means resolution failed; it never blocks message delivery.
type Labeler interface {
	Annotation(ctx context.Context, marketID string) string
}

// Config carries the vault-specific display settings.
type Config struct {
	VaultName   string
	ExplorerURI string

	// AssetSymbol and AssetDecimals drive the human-friendly amount
	// annotation; both must be set for it to appear.
	AssetSymbol   string
	AssetDecimals int32

	// AssetThreshold gates deposit/withdraw alerts on the raw asset amount.
	// Nil suppresses those alerts entirely.
	AssetThreshold *big.Int
}

// Formatter turns queued events into alert messages. It is pure apart from
// the label-cache fills performed through the Labeler.
type Formatter struct {
	cfg    Config
	labels Labeler
	logger *zap.Logger
}

func NewFormatter(cfg Config, labels Labeler, logger *zap.Logger) *Formatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Formatter{cfg: cfg, labels: labels, logger: logger}
}

// Format renders the alert message for an event, or "" to suppress it.
func (f *Formatter) Format(ctx context.Context, ev model.QueuedEvent) string {
	kind := KindOf(ev.EventName)
	if kind.Suppressed() {
		return ""
	}

	switch kind {
	case KindDeposit:
		return f.formatAssetMove(ev, 2, []string{"sender", "owner", "assets", "shares"})
	case KindWithdraw:
		return f.formatAssetMove(ev, 3, []string{"sender", "receiver", "owner", "assets", "shares"})
	case KindReallocateSupply, KindReallocateWithdraw:
		return f.formatReallocation(ctx, ev)
	case KindSubmitTimelock:
		return f.formatFields(ev, []string{"newTimelock"})
	case KindSetTimelock:
		return f.formatFields(ev, []string{"caller", "newTimelock"})
	case KindSetSkimRecipient:
		return f.formatFields(ev, []string{"newSkimRecipient"})
	case KindSetFee:
		return f.formatFields(ev, []string{"caller", "newFee"})
	case KindSetFeeRecipient:
		return f.formatFields(ev, []string{"newFeeRecipient"})
	case KindSubmitGuardian:
		return f.formatFields(ev, []string{"newGuardian"})
	case KindSetGuardian:
		return f.formatFields(ev, []string{"caller", "guardian"})
	case KindSubmitCap, KindSetCap:
		return f.formatMarketFields(ctx, ev, []string{"caller", "id", "cap"}, 1)
	case KindSubmitMarketRemoval, KindRevokePendingCap, KindRevokePendingMarketRemoval:
		return f.formatMarketFields(ctx, ev, []string{"caller", "id"}, 1)
	case KindSetCurator:
		return f.formatFields(ev, []string{"newCurator"})
	case KindSetIsAllocator:
		return f.formatFields(ev, []string{"allocator", "isAllocator"})
	case KindRevokePendingTimelock, KindRevokePendingGuardian:
		return f.formatFields(ev, []string{"caller"})
	case KindSetSupplyQueue:
		return f.formatQueueChange(ctx, ev, "newSupplyQueue")
	case KindSetWithdrawQueue:
		return f.formatQueueChange(ctx, ev, "newWithdrawQueue")
	case KindSkim:
		return f.formatFields(ev, []string{"caller", "token", "amount"})
	default:
		return f.header(ev, "") + "\n" + strings.Join(ev.Args, "\n")
	}
}

// header renders the common first lines: vault name, event name, optional
// amount annotation, and the transaction explorer link.
func (f *Formatter) header(ev model.QueuedEvent, annotation string) string {
	return fmt.Sprintf("[%s] [%s] %s\ntx: %s/tx/%s\n", f.cfg.VaultName, ev.EventName, annotation, f.cfg.ExplorerURI, ev.TxHash)
}

// formatAssetMove handles deposits and withdrawals: suppressed without a
// configured threshold, and below it.
func (f *Formatter) formatAssetMove(ev model.QueuedEvent, assetsIdx int, fields []string) string {
	if f.cfg.AssetThreshold == nil {
		f.logger.Info("asset threshold not set, ignoring event", zap.String("event", ev.EventName))
		return ""
	}

	assets, ok := new(big.Int).SetString(arg(ev, assetsIdx), 10)
	if !ok {
		f.logger.Warn("unparseable asset amount", zap.String("event", ev.EventName), zap.String("amount", arg(ev, assetsIdx)))
		return ""
	}
	if assets.Cmp(f.cfg.AssetThreshold) < 0 {
		f.logger.Info("ignoring event below threshold",
			zap.String("event", ev.EventName),
			zap.String("assets", assets.String()),
			zap.String("threshold", f.cfg.AssetThreshold.String()),
		)
		return ""
	}

	var b strings.Builder
	b.WriteString(f.header(ev, f.amountAnnotation(assets)))
	b.WriteString("\n")
	writeFields(&b, ev, fields)
	return b.String()
}

func (f *Formatter) formatReallocation(ctx context.Context, ev model.QueuedEvent) string {
	annotation := ""
	if amount, ok := new(big.Int).SetString(arg(ev, 2), 10); ok {
		annotation = f.amountAnnotation(amount)
	}

	var b strings.Builder
	b.WriteString(f.header(ev, annotation))
	b.WriteString("\n")
	fmt.Fprintf(&b, "id: %s\n", f.labels.Annotation(ctx, arg(ev, 1)))
	return b.String()
}

// formatFields renders one "name: value" line per argument.
func (f *Formatter) formatFields(ev model.QueuedEvent, fields []string) string {
	var b strings.Builder
	b.WriteString(f.header(ev, ""))
	b.WriteString("\n")
	writeFields(&b, ev, fields)
	return b.String()
}

// formatMarketFields is formatFields with the market-id field annotated by
// its resolved label.
func (f *Formatter) formatMarketFields(ctx context.Context, ev model.QueuedEvent, fields []string, idIdx int) string {
	var b strings.Builder
	b.WriteString(f.header(ev, ""))
	b.WriteString("\n")
	for i, name := range fields {
		if i == idIdx {
			fmt.Fprintf(&b, "%s: %s %s\n", name, arg(ev, i), f.labels.Annotation(ctx, arg(ev, i)))
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", name, arg(ev, i))
	}
	return b.String()
}

// formatQueueChange enumerates every market in the reordered queue, each
// annotated. The list structure only survives in the raw argument form.
func (f *Formatter) formatQueueChange(ctx context.Context, ev model.QueuedEvent, fieldName string) string {
	var ids []string
	if len(ev.RawArgs) > 1 {
		ids = vault.MarketIDs(ev.RawArgs[1])
	}
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, id+" "+f.labels.Annotation(ctx, id))
	}

	var b strings.Builder
	b.WriteString(f.header(ev, ""))
	b.WriteString("\n")
	fmt.Fprintf(&b, "caller: %s\n", arg(ev, 0))
	fmt.Fprintf(&b, "%s:\n%s\n", fieldName, strings.Join(lines, "\n"))
	return b.String()
}

func (f *Formatter) amountAnnotation(amount *big.Int) string {
	if f.cfg.AssetSymbol == "" || f.cfg.AssetDecimals <= 0 {
		return ""
	}
	return fmt.Sprintf("[%s %s]", FriendlyFormat(Norm(amount, f.cfg.AssetDecimals)), f.cfg.AssetSymbol)
}

func writeFields(b *strings.Builder, ev model.QueuedEvent, fields []string) {
	for i, name := range fields {
		fmt.Fprintf(b, "%s: %s\n", name, arg(ev, i))
	}
}

// arg returns the i-th stringified argument, or "" when the event carries
// fewer arguments than the dispatcher expects.
func arg(ev model.QueuedEvent, i int) string {
	if i < 0 || i >= len(ev.Args) {
		return ""
	}
	return ev.Args[i]
}
