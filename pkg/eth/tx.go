package eth

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrInvalidRawTx  = errors.New("invalid raw transaction")
	ErrWrongTarget   = errors.New("transaction does not target the subscription contract")
	ErrWrongChain    = errors.New("transaction signed for another chain")
	ErrTxNotFound    = errors.New("transaction not found")
	ErrReceiptFailed = errors.New("transaction reverted")
)

// subscribeGasLimit is the gas hint for subscribe(); the call is a fixed-cost
// transfer plus two storage writes.
const subscribeGasLimit = 100000

// PreparedTx is an unsigned contract call for a wallet to sign.
type PreparedTx struct {
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	ChainID  int64  `json:"chain_id"`
	GasLimit uint64 `json:"gas_limit,omitempty"`
	Method   string `json:"method"`
}

func (c *Client) prepare(method string, value *big.Int, gas uint64, args ...interface{}) (*PreparedTx, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	if value == nil {
		value = new(big.Int)
	}
	return &PreparedTx{
		To:       c.contract.Hex(),
		Data:     hexutil.Encode(data),
		Value:    value.String(),
		ChainID:  c.chainID.Int64(),
		GasLimit: gas,
		Method:   method,
	}, nil
}

func (c *Client) PrepareRegisterCreator(fee *big.Int, platformShare uint64) (*PreparedTx, error) {
	return c.prepare(MethodRegisterCreator, nil, 0, fee, new(big.Int).SetUint64(platformShare))
}

func (c *Client) PrepareSubscribe(creator common.Address, fee *big.Int) (*PreparedTx, error) {
	return c.prepare(MethodSubscribe, fee, subscribeGasLimit, creator)
}

func (c *Client) PrepareWithdrawCreatorEarnings() (*PreparedTx, error) {
	return c.prepare(MethodWithdrawCreatorEarnings, nil, 0)
}

func (c *Client) PrepareWithdrawPlatformCut(creator common.Address) (*PreparedTx, error) {
	return c.prepare(MethodWithdrawPlatformCut, nil, 0, creator)
}

// DecodeRawTransaction parses a signed transaction and checks that it calls
// the subscription contract on the configured chain.
func (c *Client) DecodeRawTransaction(raw string) (*types.Transaction, error) {
	b, err := hexutil.Decode(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRawTx, err)
	}

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRawTx, err)
	}
	if tx.To() == nil || *tx.To() != c.contract {
		return nil, ErrWrongTarget
	}
	if tx.Protected() && tx.ChainId().Cmp(c.chainID) != 0 {
		return nil, fmt.Errorf("%w: %s", ErrWrongChain, tx.ChainId())
	}
	return tx, nil
}

// SendRawTransaction broadcasts a signed transaction and returns its hash.
func (c *Client) SendRawTransaction(ctx context.Context, raw string) (common.Hash, error) {
	tx, err := c.DecodeRawTransaction(raw)
	if err != nil {
		return common.Hash{}, err
	}

	cctx, cancel := c.timeout(ctx)
	defer cancel()

	if err := c.backend.SendTransaction(cctx, tx); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return tx.Hash(), nil
}

type ReceiptStatus string

const (
	ReceiptPending ReceiptStatus = "pending"
	ReceiptSuccess ReceiptStatus = "success"
	ReceiptFailed  ReceiptStatus = "failed"
)

type Receipt struct {
	TxHash      string        `json:"tx_hash"`
	Status      ReceiptStatus `json:"status"`
	BlockNumber uint64        `json:"block_number,omitempty"`
	GasUsed     uint64        `json:"gas_used,omitempty"`
}

// ReceiptStatus looks up a receipt once. Unknown hashes are reported as pending.
func (c *Client) ReceiptStatus(ctx context.Context, hash common.Hash) (*Receipt, error) {
	cctx, cancel := c.timeout(ctx)
	defer cancel()

	r, err := c.backend.TransactionReceipt(cctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return &Receipt{TxHash: hash.Hex(), Status: ReceiptPending}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	status := ReceiptSuccess
	if r.Status != types.ReceiptStatusSuccessful {
		status = ReceiptFailed
	}
	out := &Receipt{TxHash: hash.Hex(), Status: status, GasUsed: r.GasUsed}
	if r.BlockNumber != nil {
		out.BlockNumber = r.BlockNumber.Uint64()
	}
	return out, nil
}

// WaitReceipt polls until the transaction is mined or ctx is done.
func (c *Client) WaitReceipt(ctx context.Context, hash common.Hash) (*Receipt, error) {
	ticker := time.NewTicker(c.cfg.ReceiptPoll)
	defer ticker.Stop()

	for {
		r, err := c.ReceiptStatus(ctx, hash)
		if err != nil {
			return nil, err
		}
		if r.Status == ReceiptFailed {
			return r, ErrReceiptFailed
		}
		if r.Status == ReceiptSuccess {
			return r, nil
		}

		select {
		case <-ctx.Done():
			return r, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Transactor signs and sends prepared transactions with a local key.
type Transactor struct {
	client *Client
	key    *ecdsa.PrivateKey
	from   common.Address
}

func NewTransactor(client *Client, hexKey string) (*Transactor, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &Transactor{client: client, key: key, from: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

func (t *Transactor) From() common.Address { return t.from }

// Send signs ptx, broadcasts it and waits for the receipt.
func (t *Transactor) Send(ctx context.Context, ptx *PreparedTx) (*Receipt, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(t.key, t.client.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	if ptx.GasLimit > 0 {
		opts.GasLimit = ptx.GasLimit
	}
	value, ok := new(big.Int).SetString(ptx.Value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid value %q", ptx.Value)
	}
	opts.Value = value

	data, err := hexutil.Decode(ptx.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid calldata: %w", err)
	}

	contract := bind.NewBoundContract(t.client.contract, contractABI, t.client.backend, t.client.backend, t.client.backend)
	tx, err := contract.RawTransact(opts, data)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", ptx.Method, err)
	}
	return t.client.WaitReceipt(ctx, tx.Hash())
}
