package eth

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_InvalidAddress(t *testing.T) {
	_, err := NewClient(newFakeBackend(), Config{ContractAddress: "0x123"})
	assert.Error(t, err)
}

func TestVerifyContract(t *testing.T) {
	backend := newFakeBackend()
	backend.outputs[MethodOwner] = []interface{}{userA}
	client := newTestClient(t, backend)

	status, err := client.VerifyContract(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Deployed)
	assert.Equal(t, "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266", status.Owner)
	assert.Empty(t, status.Warning)
}

func TestVerifyContract_NoCode(t *testing.T) {
	backend := newFakeBackend()
	backend.code = nil
	client := newTestClient(t, backend)

	status, err := client.VerifyContract(context.Background())
	assert.ErrorIs(t, err, ErrNoContract)
	assert.False(t, status.Deployed)
	assert.Contains(t, err.Error(), "chain 31337")
}

func TestVerifyContract_OwnerFailureIsWarning(t *testing.T) {
	backend := newFakeBackend()
	backend.callErrs[MethodOwner] = errors.New("execution reverted")
	client := newTestClient(t, backend)

	status, err := client.VerifyContract(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Deployed)
	assert.Contains(t, status.Warning, "ABI may not match")
}

func TestCreator(t *testing.T) {
	backend := newFakeBackend()
	backend.outputs[MethodCreators] = []interface{}{
		"Digital Artist",
		big.NewInt(50000000000000000),
		big.NewInt(10),
		big.NewInt(45000000000000000),
		big.NewInt(5000000000000000),
	}
	client := newTestClient(t, backend)

	c, err := client.Creator(context.Background(), creatorA)
	require.NoError(t, err)
	assert.Equal(t, "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", c.Address)
	assert.Equal(t, "Digital Artist", c.Name)
	assert.Equal(t, "50000000000000000", c.SubscriptionFee.String())
	assert.Equal(t, uint64(10), c.PlatformShare)
	assert.Equal(t, "45000000000000000", c.CreatorBalance.String())
	assert.Equal(t, "5000000000000000", c.PlatformBalance.String())
	assert.True(t, c.IsRegistered())
}

func TestListReads(t *testing.T) {
	backend := newFakeBackend()
	backend.outputs[MethodGetRegisteredCreators] = []interface{}{[]common.Address{creatorA, creatorB}}
	backend.outputs[MethodGetSubscribers] = []interface{}{[]common.Address{userA}}
	backend.outputs[MethodIsSubscribed] = []interface{}{true}
	backend.outputs[MethodSubscriptions] = []interface{}{big.NewInt(1767225600)}
	client := newTestClient(t, backend)
	ctx := context.Background()

	registered, err := client.RegisteredCreators(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{creatorA, creatorB}, registered)

	subs, err := client.Subscribers(ctx, creatorA)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{userA}, subs)

	ok, err := client.IsSubscribed(ctx, userA, creatorA)
	require.NoError(t, err)
	assert.True(t, ok)

	expiry, err := client.SubscriptionExpiry(ctx, userA, creatorA)
	require.NoError(t, err)
	assert.Equal(t, int64(1767225600), expiry)
}

func TestCreatorName(t *testing.T) {
	backend := newFakeBackend()
	client := newTestClient(t, backend)

	_, err := client.CreatorName(context.Background(), creatorA)
	assert.ErrorIs(t, err, ErrMethodUnavailable)

	backend.outputs[MethodGetCreatorName] = []interface{}{"  Music Producer "}
	name, err := client.CreatorName(context.Background(), creatorA)
	require.NoError(t, err)
	assert.Equal(t, "Music Producer", name)
}

func TestGetLogsPaginated_Windows(t *testing.T) {
	backend := newFakeBackend()
	backend.head = 250
	backend.logs = []types.Log{
		creatorRegisteredLog(t, creatorA, 1, 10, 5, 0),
		creatorRegisteredLog(t, creatorB, 2, 15, 150, 0),
		creatorRegisteredLog(t, creatorA, 3, 12, 249, 1),
	}
	client := newTestClient(t, backend)

	logs, err := client.GetLogsPaginated(context.Background(), LogQuery{
		Topics: EventTopics(EventCreatorRegistered),
	})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, uint64(5), logs[0].BlockNumber)
	assert.Equal(t, uint64(249), logs[2].BlockNumber)
	assert.Equal(t, [][2]uint64{{0, 99}, {100, 199}, {200, 250}}, backend.filterCalls)
}

func TestGetLogsPaginated_ShrinksOnRangeError(t *testing.T) {
	backend := newFakeBackend()
	backend.maxRange = 30
	backend.logs = []types.Log{
		creatorRegisteredLog(t, creatorA, 1, 10, 10, 0),
		creatorRegisteredLog(t, creatorB, 2, 15, 90, 0),
	}
	client := newTestClient(t, backend)

	logs, err := client.GetLogsPaginated(context.Background(), LogQuery{FromBlock: 0, ToBlock: 99})
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// 100 -> 50 -> 25 wide windows.
	assert.Equal(t, [2]uint64{0, 99}, backend.filterCalls[0])
	assert.Equal(t, [2]uint64{0, 49}, backend.filterCalls[1])
	assert.Equal(t, [2]uint64{0, 24}, backend.filterCalls[2])
	assert.Equal(t, [2]uint64{75, 99}, backend.filterCalls[len(backend.filterCalls)-1])
}

func TestGetLogsPaginated_DropsRemovedAndEmptyRange(t *testing.T) {
	backend := newFakeBackend()
	removed := creatorRegisteredLog(t, creatorB, 2, 15, 20, 0)
	removed.Removed = true
	backend.logs = []types.Log{creatorRegisteredLog(t, creatorA, 1, 10, 10, 0), removed}
	client := newTestClient(t, backend)

	logs, err := client.GetLogsPaginated(context.Background(), LogQuery{FromBlock: 0, ToBlock: 50})
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	logs, err = client.GetLogsPaginated(context.Background(), LogQuery{FromBlock: 60, ToBlock: 50})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestParseEvents(t *testing.T) {
	reg, err := ParseCreatorRegistered(creatorRegisteredLog(t, creatorA, 50000000000000000, 10, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, creatorA, reg.Creator)
	assert.Equal(t, "50000000000000000", reg.Fee.String())
	assert.Equal(t, uint64(10), reg.PlatformShare)

	sub, err := ParseSubscribed(subscribedLog(t, userA, creatorA, 1767225600, 2, 0))
	require.NoError(t, err)
	assert.Equal(t, userA, sub.User)
	assert.Equal(t, creatorA, sub.Creator)
	assert.Equal(t, int64(1767225600), sub.ExpiresAt)

	named, err := ParseCreatorNameUpdated(nameUpdatedLog(t, creatorB, "Game Developer", 3))
	require.NoError(t, err)
	assert.Equal(t, creatorB, named.Creator)
	assert.Equal(t, "Game Developer", named.Name)
}

func TestParseEvents_Rejects(t *testing.T) {
	_, err := ParseSubscribed(creatorRegisteredLog(t, creatorA, 1, 1, 1, 0))
	assert.ErrorContains(t, err, "not a Subscribed event")

	l := subscribedLog(t, userA, creatorA, 1, 1, 0)
	l.Topics = l.Topics[:2]
	_, err = ParseSubscribed(l)
	assert.ErrorContains(t, err, "expected 3 topics")

	l = creatorRegisteredLog(t, creatorA, 1, 1, 1, 0)
	l.Data = l.Data[:10]
	_, err = ParseCreatorRegistered(l)
	assert.Error(t, err)
}

func TestToChainEvent(t *testing.T) {
	ev, err := ToChainEvent(subscribedLog(t, userA, creatorA, 1767225600, 7, 2))
	require.NoError(t, err)
	assert.Equal(t, "subscribed", string(ev.Kind))
	assert.Equal(t, "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", ev.Creator)
	assert.Equal(t, "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266", ev.User)
	assert.Equal(t, uint64(7), ev.BlockNumber)
	assert.Equal(t, uint(2), ev.LogIndex)

	ev, err = ToChainEvent(creatorRegisteredLog(t, creatorB, 8, 20, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, "creator_registered", string(ev.Kind))
	assert.Equal(t, "8", ev.Fee)
	assert.Equal(t, uint64(20), ev.PlatformShare)

	_, err = ToChainEvent(types.Log{Topics: []common.Hash{common.HexToHash("0x01")}})
	assert.ErrorContains(t, err, "unknown event topic")
}

func TestPrepareTransactions(t *testing.T) {
	client := newTestClient(t, newFakeBackend())

	ptx, err := client.PrepareSubscribe(creatorA, big.NewInt(50000000000000000))
	require.NoError(t, err)
	assert.Equal(t, testContract.Hex(), ptx.To)
	assert.Equal(t, "50000000000000000", ptx.Value)
	assert.Equal(t, uint64(100000), ptx.GasLimit)
	assert.Equal(t, int64(31337), ptx.ChainID)

	data, err := hexutil.Decode(ptx.Data)
	require.NoError(t, err)
	method, err := contractABI.MethodById(data[:4])
	require.NoError(t, err)
	assert.Equal(t, MethodSubscribe, method.Name)
	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Equal(t, creatorA, args[0])

	ptx, err = client.PrepareRegisterCreator(big.NewInt(10000000000000000), 10)
	require.NoError(t, err)
	assert.Equal(t, "0", ptx.Value)
	assert.Equal(t, MethodRegisterCreator, ptx.Method)

	ptx, err = client.PrepareWithdrawPlatformCut(creatorB)
	require.NoError(t, err)
	assert.Equal(t, MethodWithdrawPlatformCut, ptx.Method)

	ptx, err = client.PrepareWithdrawCreatorEarnings()
	require.NoError(t, err)
	assert.Equal(t, MethodWithdrawCreatorEarnings, ptx.Method)

	data, err = hexutil.Decode(ptx.Data)
	require.NoError(t, err)
	assert.Equal(t, MethodWithdrawCreatorEarnings, MethodName(data))
	assert.Equal(t, "", MethodName([]byte{0x01}))
	assert.Equal(t, "", MethodName([]byte{0xde, 0xad, 0xbe, 0xef}))
}

func signedTx(t *testing.T, to common.Address, chainID int64) string {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(chainID),
		Nonce:     0,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
		Gas:       100000,
		To:        &to,
		Value:     big.NewInt(1),
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(big.NewInt(chainID)), key)
	require.NoError(t, err)
	raw, err := signed.MarshalBinary()
	require.NoError(t, err)
	return hexutil.Encode(raw)
}

func TestSendRawTransaction(t *testing.T) {
	backend := newFakeBackend()
	client := newTestClient(t, backend)
	ctx := context.Background()

	hash, err := client.SendRawTransaction(ctx, signedTx(t, testContract, 31337))
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)
	assert.Equal(t, backend.sent[0].Hash(), hash)

	_, err = client.SendRawTransaction(ctx, signedTx(t, creatorA, 31337))
	assert.ErrorIs(t, err, ErrWrongTarget)

	_, err = client.SendRawTransaction(ctx, signedTx(t, testContract, 1))
	assert.ErrorIs(t, err, ErrWrongChain)

	_, err = client.SendRawTransaction(ctx, "0xzz")
	assert.ErrorIs(t, err, ErrInvalidRawTx)
}

func TestReceiptStatus(t *testing.T) {
	backend := newFakeBackend()
	client := newTestClient(t, backend)
	ctx := context.Background()
	ok := common.HexToHash("0x01")
	bad := common.HexToHash("0x02")
	backend.receipts[ok] = &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(9), GasUsed: 21000}
	backend.receipts[bad] = &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(9)}

	r, err := client.ReceiptStatus(ctx, common.HexToHash("0x03"))
	require.NoError(t, err)
	assert.Equal(t, ReceiptPending, r.Status)

	r, err = client.WaitReceipt(ctx, ok)
	require.NoError(t, err)
	assert.Equal(t, ReceiptSuccess, r.Status)
	assert.Equal(t, uint64(9), r.BlockNumber)
	assert.Equal(t, uint64(21000), r.GasUsed)

	_, err = client.WaitReceipt(ctx, bad)
	assert.ErrorIs(t, err, ErrReceiptFailed)

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = client.WaitReceipt(short, common.HexToHash("0x03"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTransactionDetailsAndBlockTime(t *testing.T) {
	backend := newFakeBackend()
	client := newTestClient(t, backend)
	blockHash := common.HexToHash("0xb1")
	backend.headers[blockHash] = &types.Header{Time: 1700000000}
	tx := types.NewTx(&types.LegacyTx{Gas: 100000, Value: big.NewInt(5), GasPrice: big.NewInt(1)})
	backend.txs[tx.Hash()] = tx

	ts, err := client.BlockTime(context.Background(), blockHash)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts.Unix())

	details, err := client.TransactionDetails(context.Background(), tx.Hash())
	require.NoError(t, err)
	assert.Equal(t, "5", details.Value.String())
	assert.Equal(t, uint64(100000), details.GasLimit)
}

func TestVerifySignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)
	msg := LoginMessage(addr.Hex(), "nonce-1")

	sig, err := crypto.Sign(accounts.TextHash([]byte(msg)), key)
	require.NoError(t, err)
	sig[64] += 27

	assert.NoError(t, VerifySignature(addr, msg, hexutil.Encode(sig)))
	assert.ErrorIs(t, VerifySignature(creatorA, msg, hexutil.Encode(sig)), ErrBadSignature)
	assert.ErrorIs(t, VerifySignature(addr, msg+"x", hexutil.Encode(sig)), ErrBadSignature)
	assert.ErrorIs(t, VerifySignature(addr, msg, "0x1234"), ErrBadSignature)
}
