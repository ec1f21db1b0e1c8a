package vault

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"vaultwatch/internal/model"
)

// Decoder turns raw vault logs into queued events using the known event
// signatures. Logs that match no signature are rejected with an error.
type Decoder struct {
	vaultABI abi.ABI
}

// NewDecoder builds a decoder over the MetaMorpho event ABI.
func NewDecoder() (*Decoder, error) {
	vaultABI, err := MetaMorphoABI()
	if err != nil {
		return nil, fmt.Errorf("parse vault abi: %w", err)
	}
	return &Decoder{vaultABI: vaultABI}, nil
}

// DecodeLog converts a raw log into a QueuedEvent, reconstructing the
// arguments in declaration order: indexed values from the topics, the rest
// unpacked from the data segment.
func (d *Decoder) DecodeLog(log types.Log) (model.QueuedEvent, error) {
	if len(log.Topics) == 0 {
		return model.QueuedEvent{}, fmt.Errorf("missing topics")
	}

	event, err := d.vaultABI.EventByID(log.Topics[0])
	if err != nil {
		return model.QueuedEvent{}, fmt.Errorf("unknown event topic %s", log.Topics[0].Hex())
	}

	nonIndexed, err := event.Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return model.QueuedEvent{}, fmt.Errorf("unpack %s: %w", event.Name, err)
	}

	rawArgs := make([]interface{}, 0, len(event.Inputs))
	topicIdx := 1
	dataIdx := 0
	for _, input := range event.Inputs {
		if input.Indexed {
			if topicIdx >= len(log.Topics) {
				return model.QueuedEvent{}, fmt.Errorf("%s: expected %d topics, got %d", event.Name, topicIdx+1, len(log.Topics))
			}
			value, err := topicValue(input, log.Topics[topicIdx])
			if err != nil {
				return model.QueuedEvent{}, fmt.Errorf("%s topic %d: %w", event.Name, topicIdx, err)
			}
			rawArgs = append(rawArgs, value)
			topicIdx++
			continue
		}
		if dataIdx >= len(nonIndexed) {
			return model.QueuedEvent{}, fmt.Errorf("%s: not enough data values", event.Name)
		}
		rawArgs = append(rawArgs, nonIndexed[dataIdx])
		dataIdx++
	}

	args := make([]string, 0, len(rawArgs))
	for _, value := range rawArgs {
		args = append(args, Stringify(value))
	}

	return model.QueuedEvent{
		TxHash:      log.TxHash.Hex(),
		EventName:   event.Name,
		Args:        args,
		RawArgs:     rawArgs,
		BlockNumber: log.BlockNumber,
	}, nil
}

func topicValue(arg abi.Argument, topic common.Hash) (interface{}, error) {
	switch arg.Type.T {
	case abi.AddressTy:
		return common.BytesToAddress(topic.Bytes()), nil
	case abi.FixedBytesTy:
		if arg.Type.Size != 32 {
			return nil, fmt.Errorf("unsupported indexed type %s", arg.Type.String())
		}
		var value [32]byte
		copy(value[:], topic.Bytes())
		return value, nil
	case abi.UintTy, abi.IntTy:
		return new(big.Int).SetBytes(topic.Bytes()), nil
	case abi.BoolTy:
		return topic.Bytes()[31] != 0, nil
	default:
		return nil, fmt.Errorf("unsupported indexed type %s", arg.Type.String())
	}
}

// Stringify renders a decoded argument value the way the dispatcher expects:
// checksummed addresses, decimal integers, 0x-prefixed fixed bytes, and
// comma-joined lists.
func Stringify(value interface{}) string {
	switch v := value.(type) {
	case common.Address:
		return v.Hex()
	case *big.Int:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	case [32]byte:
		return hexutil.Encode(v[:])
	case [][32]byte:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, hexutil.Encode(item[:]))
		}
		return strings.Join(parts, ",")
	case []byte:
		return hexutil.Encode(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// MarketIDs extracts the bytes32 list carried by a raw argument, used for
// the queue-reordering events whose stringified form loses the list shape.
func MarketIDs(rawArg interface{}) []string {
	ids, ok := rawArg.([][32]byte)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, hexutil.Encode(id[:]))
	}
	return out
}
