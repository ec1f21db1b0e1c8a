package model

// QueuedEvent is one decoded vault event awaiting processing.
//
// Args holds every argument stringified in declaration order; RawArgs keeps
// the original decoded values for the few events whose arguments carry list
// structure that stringification flattens.
type QueuedEvent struct {
	TxHash      string
	EventName   string
	Args        []string
	RawArgs     []interface{}
	BlockNumber uint64
}
