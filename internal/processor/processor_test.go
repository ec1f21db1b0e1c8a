package processor

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"vaultwatch/internal/alert"
	"vaultwatch/internal/model"
	"vaultwatch/internal/queue"
)

type sentMessage struct {
	chatID string
	text   string
}

type fakeNotifier struct {
	sent []sentMessage
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, chatID, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type fakeSender struct {
	address common.Address
	calls   int
}

func (f *fakeSender) TransactionSender(_ context.Context, _ common.Hash) (common.Address, error) {
	f.calls++
	return f.address, nil
}

type fixedLabeler struct{}

func (fixedLabeler) Annotation(context.Context, string) string { return "[wstETH/USDC/86%]" }

func newTestProcessor(t *testing.T, cfg Config, notifier *fakeNotifier, sender *fakeSender) (*Processor, *queue.EventQueue) {
	t.Helper()
	q := queue.New()
	formatter := alert.NewFormatter(alert.Config{
		VaultName:      "Test Vault",
		ExplorerURI:    "https://etherscan.io",
		AssetSymbol:    "USDC",
		AssetDecimals:  6,
		AssetThreshold: big.NewInt(1000000),
	}, fixedLabeler{}, nil)

	p, err := New(cfg, q, formatter, notifier, sender, nil)
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	return p, q
}

func depositEvent(assets string) model.QueuedEvent {
	return model.QueuedEvent{
		TxHash:    "0xabc",
		EventName: "Deposit",
		Args:      []string{"0x1", "0x2", assets, "900"},
	}
}

func reallocationEvent() model.QueuedEvent {
	return model.QueuedEvent{
		TxHash:    "0xdef",
		EventName: "ReallocateSupply",
		Args:      []string{"0xcaller", "0xmarket", "5000000000", "4000"},
	}
}

func TestNewRequiresChatID(t *testing.T) {
	if _, err := New(Config{}, queue.New(), nil, &fakeNotifier{}, nil, nil); err == nil {
		t.Fatalf("expected error without chat id")
	}
}

func TestNewRequiresNotifier(t *testing.T) {
	if _, err := New(Config{ChatID: "123"}, queue.New(), nil, nil, nil, nil); err == nil {
		t.Fatalf("expected error without notifier")
	}
}

func TestDrainDeliversInOrder(t *testing.T) {
	notifier := &fakeNotifier{}
	p, q := newTestProcessor(t, Config{ChatID: "123"}, notifier, nil)

	q.Push(depositEvent("2000000000"))
	q.Push(depositEvent("9000000000"))

	if err := p.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(notifier.sent) != 2 {
		t.Fatalf("got %d messages, want 2", len(notifier.sent))
	}
	if notifier.sent[0].chatID != "123" {
		t.Fatalf("got chat %q, want 123", notifier.sent[0].chatID)
	}
	first, second := notifier.sent[0].text, notifier.sent[1].text
	if !strings.Contains(first, "[2K USDC]") || !strings.Contains(second, "[9K USDC]") {
		t.Fatalf("delivery order wrong:\n%q\n%q", first, second)
	}
}

func TestDrainSkipsBelowThreshold(t *testing.T) {
	notifier := &fakeNotifier{}
	p, q := newTestProcessor(t, Config{ChatID: "123"}, notifier, nil)

	q.Push(depositEvent("999"))
	if err := p.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("expected no messages, got %d", len(notifier.sent))
	}
}

func TestReallocationRoutedToDedicatedChat(t *testing.T) {
	notifier := &fakeNotifier{}
	p, q := newTestProcessor(t, Config{ChatID: "123", ReallocationChatID: "456"}, notifier, nil)

	q.Push(reallocationEvent())
	q.Push(depositEvent("2000000000"))

	if err := p.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(notifier.sent) != 2 {
		t.Fatalf("got %d messages, want 2", len(notifier.sent))
	}
	if notifier.sent[0].chatID != "456" {
		t.Fatalf("reallocation routed to %q, want 456", notifier.sent[0].chatID)
	}
	if notifier.sent[1].chatID != "123" {
		t.Fatalf("deposit routed to %q, want 123", notifier.sent[1].chatID)
	}
}

func TestReallocationDefaultChatWithoutOverride(t *testing.T) {
	notifier := &fakeNotifier{}
	p, q := newTestProcessor(t, Config{ChatID: "123"}, notifier, nil)

	q.Push(reallocationEvent())
	if err := p.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].chatID != "123" {
		t.Fatalf("unexpected delivery: %+v", notifier.sent)
	}
}

func TestAuthorFilterDropsAllocatorReallocations(t *testing.T) {
	notifier := &fakeNotifier{}
	sender := &fakeSender{address: allocatorAddress}
	p, q := newTestProcessor(t, Config{ChatID: "123", FilterAuthor: true}, notifier, sender)

	q.Push(reallocationEvent())
	if err := p.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if sender.calls != 1 {
		t.Fatalf("sender lookup calls: got %d, want 1", sender.calls)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("allocator reallocation delivered: %+v", notifier.sent)
	}
}

func TestAuthorFilterKeepsOtherSenders(t *testing.T) {
	notifier := &fakeNotifier{}
	sender := &fakeSender{address: common.HexToAddress("0x1234567890123456789012345678901234567890")}
	p, q := newTestProcessor(t, Config{ChatID: "123", FilterAuthor: true}, notifier, sender)

	q.Push(reallocationEvent())
	if err := p.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("got %d messages, want 1", len(notifier.sent))
	}
}

func TestAuthorFilterIgnoresNonReallocations(t *testing.T) {
	notifier := &fakeNotifier{}
	sender := &fakeSender{address: allocatorAddress}
	p, q := newTestProcessor(t, Config{ChatID: "123", FilterAuthor: true}, notifier, sender)

	q.Push(depositEvent("2000000000"))
	if err := p.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if sender.calls != 0 {
		t.Fatalf("sender lookup should not run for deposits, got %d calls", sender.calls)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("got %d messages, want 1", len(notifier.sent))
	}
}

func TestDeliveryFailurePropagates(t *testing.T) {
	notifier := &fakeNotifier{err: fmt.Errorf("telegram down")}
	p, q := newTestProcessor(t, Config{ChatID: "123"}, notifier, nil)

	q.Push(depositEvent("2000000000"))
	if err := p.Drain(context.Background()); err == nil {
		t.Fatalf("expected delivery error to propagate")
	}
}
