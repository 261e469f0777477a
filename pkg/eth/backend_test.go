package eth

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

var (
	testContract = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	creatorA     = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	creatorB     = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	userA        = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
)

// fakeBackend answers contract calls from canned outputs keyed by method
// name. Methods not overridden panic through the nil embedded Backend.
type fakeBackend struct {
	Backend

	mu          sync.Mutex
	code        []byte
	outputs     map[string][]interface{}
	callErrs    map[string]error
	logs        []types.Log
	maxRange    uint64
	filterCalls [][2]uint64
	head        uint64
	headers     map[common.Hash]*types.Header
	txs         map[common.Hash]*types.Transaction
	receipts    map[common.Hash]*types.Receipt
	sent        []*types.Transaction
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		code:     []byte{0x60, 0x80},
		outputs:  map[string][]interface{}{},
		callErrs: map[string]error{},
		headers:  map[common.Hash]*types.Header{},
		txs:      map[common.Hash]*types.Transaction{},
		receipts: map[common.Hash]*types.Receipt{},
	}
}

func (f *fakeBackend) CodeAt(ctx context.Context, account common.Address, block *big.Int) ([]byte, error) {
	return f.code, nil
}

func (f *fakeBackend) CallContract(ctx context.Context, call ethereum.CallMsg, block *big.Int) ([]byte, error) {
	method, err := contractABI.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	if err := f.callErrs[method.Name]; err != nil {
		return nil, err
	}
	out, ok := f.outputs[method.Name]
	if !ok {
		return nil, nil
	}
	return method.Outputs.Pack(out...)
}

func (f *fakeBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	from, to := q.FromBlock.Uint64(), q.ToBlock.Uint64()
	f.filterCalls = append(f.filterCalls, [2]uint64{from, to})
	if f.maxRange > 0 && to-from+1 > f.maxRange {
		return nil, errors.New("query returned more than 10000 results")
	}

	var out []types.Log
	for _, l := range f.logs {
		if l.BlockNumber < from || l.BlockNumber > to {
			continue
		}
		if !matchTopics(l, q.Topics) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func matchTopics(l types.Log, filter [][]common.Hash) bool {
	for i, options := range filter {
		if len(options) == 0 {
			continue
		}
		if i >= len(l.Topics) {
			return false
		}
		hit := false
		for _, t := range options {
			if l.Topics[i] == t {
				hit = true
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func (f *fakeBackend) BlockNumber(ctx context.Context) (uint64, error) { return f.head, nil }

func (f *fakeBackend) ChainID(ctx context.Context) (*big.Int, error) { return big.NewInt(31337), nil }

func (f *fakeBackend) HeaderByHash(ctx context.Context, hash common.Hash) (*types.Header, error) {
	h, ok := f.headers[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return h, nil
}

func (f *fakeBackend) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	tx, ok := f.txs[hash]
	if !ok {
		return nil, false, ethereum.NotFound
	}
	return tx, false, nil
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	r, ok := f.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func (f *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.sent = append(f.sent, tx)
	return nil
}

func newTestClient(t *testing.T, backend *fakeBackend) *Client {
	t.Helper()
	client, err := NewClient(backend, Config{
		ContractAddress:   testContract.Hex(),
		ChainID:           31337,
		LogPageSize:       100,
		RequestsPerSecond: 10000,
	})
	require.NoError(t, err)
	return client
}

func creatorRegisteredLog(t *testing.T, creator common.Address, fee int64, share int64, block uint64, index uint) types.Log {
	t.Helper()
	ev := contractABI.Events[EventCreatorRegistered]
	data, err := ev.Inputs.NonIndexed().Pack(big.NewInt(fee), big.NewInt(share))
	require.NoError(t, err)
	return types.Log{
		Address:     testContract,
		Topics:      []common.Hash{ev.ID, AddressTopic(creator)},
		Data:        data,
		BlockNumber: block,
		TxHash:      common.HexToHash(fmt.Sprintf("0x%064x", block*100+uint64(index))),
		Index:       index,
	}
}

func subscribedLog(t *testing.T, user, creator common.Address, expiresAt int64, block uint64, index uint) types.Log {
	t.Helper()
	ev := contractABI.Events[EventSubscribed]
	data, err := ev.Inputs.NonIndexed().Pack(big.NewInt(expiresAt))
	require.NoError(t, err)
	return types.Log{
		Address:     testContract,
		Topics:      []common.Hash{ev.ID, AddressTopic(user), AddressTopic(creator)},
		Data:        data,
		BlockNumber: block,
		BlockHash:   common.HexToHash(fmt.Sprintf("0x%064x", block)),
		TxHash:      common.HexToHash(fmt.Sprintf("0x%064x", block*100+uint64(index))),
		Index:       index,
	}
}

func nameUpdatedLog(t *testing.T, creator common.Address, name string, block uint64) types.Log {
	t.Helper()
	ev := contractABI.Events[EventCreatorNameUpdated]
	data, err := ev.Inputs.NonIndexed().Pack(name)
	require.NoError(t, err)
	return types.Log{
		Address:     testContract,
		Topics:      []common.Hash{ev.ID, AddressTopic(creator)},
		Data:        data,
		BlockNumber: block,
	}
}
