package eth

import (
	"fmt"
	"math/big"

	"creatorpay/pkg/models"
	"creatorpay/pkg/units"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// CreatorRegisteredEvent is CreatorRegistered(creator indexed, fee, platformShare).
type CreatorRegisteredEvent struct {
	Creator       common.Address
	Fee           *big.Int
	PlatformShare uint64
	Raw           types.Log
}

// SubscribedEvent is Subscribed(user indexed, creator indexed, expiresAt).
type SubscribedEvent struct {
	User      common.Address
	Creator   common.Address
	ExpiresAt int64
	Raw       types.Log
}

// CreatorNameUpdatedEvent is CreatorNameUpdated(creator indexed, name).
type CreatorNameUpdatedEvent struct {
	Creator common.Address
	Name    string
	Raw     types.Log
}

func unpackEvent(name string, l types.Log, indexed int) ([]interface{}, error) {
	ev := contractABI.Events[name]
	if len(l.Topics) == 0 || l.Topics[0] != ev.ID {
		return nil, fmt.Errorf("not a %s event", name)
	}
	if len(l.Topics) < indexed+1 {
		return nil, fmt.Errorf("invalid %s event: expected %d topics, got %d", name, indexed+1, len(l.Topics))
	}

	values, err := ev.Inputs.NonIndexed().Unpack(l.Data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s data: %w", name, err)
	}
	return values, nil
}

func topicAddress(h common.Hash) common.Address {
	return common.BytesToAddress(h.Bytes())
}

func ParseCreatorRegistered(l types.Log) (*CreatorRegisteredEvent, error) {
	values, err := unpackEvent(EventCreatorRegistered, l, 1)
	if err != nil {
		return nil, err
	}

	fee, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("parse fee: unexpected type %T", values[0])
	}
	share, ok := values[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("parse platformShare: unexpected type %T", values[1])
	}

	return &CreatorRegisteredEvent{
		Creator:       topicAddress(l.Topics[1]),
		Fee:           fee,
		PlatformShare: share.Uint64(),
		Raw:           l,
	}, nil
}

func ParseSubscribed(l types.Log) (*SubscribedEvent, error) {
	values, err := unpackEvent(EventSubscribed, l, 2)
	if err != nil {
		return nil, err
	}

	expiresAt, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("parse expiresAt: unexpected type %T", values[0])
	}

	return &SubscribedEvent{
		User:      topicAddress(l.Topics[1]),
		Creator:   topicAddress(l.Topics[2]),
		ExpiresAt: expiresAt.Int64(),
		Raw:       l,
	}, nil
}

func ParseCreatorNameUpdated(l types.Log) (*CreatorNameUpdatedEvent, error) {
	values, err := unpackEvent(EventCreatorNameUpdated, l, 1)
	if err != nil {
		return nil, err
	}

	name, ok := values[0].(string)
	if !ok {
		return nil, fmt.Errorf("parse name: unexpected type %T", values[0])
	}

	return &CreatorNameUpdatedEvent{
		Creator: topicAddress(l.Topics[1]),
		Name:    name,
		Raw:     l,
	}, nil
}

// ToChainEvent decodes any of the three contract events into the queue form.
func ToChainEvent(l types.Log) (*models.ChainEvent, error) {
	if len(l.Topics) == 0 {
		return nil, fmt.Errorf("log without topics")
	}

	base := models.ChainEvent{
		BlockNumber: l.BlockNumber,
		TxHash:      l.TxHash.Hex(),
		LogIndex:    l.Index,
	}

	switch l.Topics[0] {
	case contractABI.Events[EventCreatorRegistered].ID:
		ev, err := ParseCreatorRegistered(l)
		if err != nil {
			return nil, err
		}
		base.Kind = models.EventCreatorRegistered
		base.Creator = units.AddressKey(ev.Creator)
		base.Fee = ev.Fee.String()
		base.PlatformShare = ev.PlatformShare
	case contractABI.Events[EventSubscribed].ID:
		ev, err := ParseSubscribed(l)
		if err != nil {
			return nil, err
		}
		base.Kind = models.EventSubscribed
		base.Creator = units.AddressKey(ev.Creator)
		base.User = units.AddressKey(ev.User)
		base.ExpiresAt = ev.ExpiresAt
	case contractABI.Events[EventCreatorNameUpdated].ID:
		ev, err := ParseCreatorNameUpdated(l)
		if err != nil {
			return nil, err
		}
		base.Kind = models.EventCreatorNameUpdated
		base.Creator = units.AddressKey(ev.Creator)
		base.Name = ev.Name
	default:
		return nil, fmt.Errorf("unknown event topic %s", l.Topics[0].Hex())
	}
	return &base, nil
}
