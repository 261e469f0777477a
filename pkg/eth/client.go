// Package eth talks to the subscription contract over JSON-RPC.
package eth

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"creatorpay/pkg/models"
	"creatorpay/pkg/units"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"
)

var (
	ErrNoContract        = errors.New("no contract deployed at address")
	ErrWrongNetwork      = errors.New("rpc endpoint is on a different network")
	ErrMethodUnavailable = errors.New("contract method unavailable")
)

// Backend is the subset of an Ethereum node API the client relies on.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	BlockNumber(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	HeaderByHash(ctx context.Context, hash common.Hash) (*types.Header, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

type Config struct {
	RPCURL            string
	ContractAddress   string
	ChainID           int64
	Timeout           time.Duration
	LogPageSize       uint64
	StartBlock        uint64
	RequestsPerSecond float64
	ReceiptPoll       time.Duration
}

func (c Config) withDefaults() Config {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.LogPageSize == 0 {
		c.LogPageSize = 2000
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 10
	}
	if c.ReceiptPoll == 0 {
		c.ReceiptPoll = 2 * time.Second
	}
	return c
}

type Client struct {
	backend  Backend
	contract common.Address
	chainID  *big.Int
	cfg      Config
	limiter  *rate.Limiter
	close    func()
}

// Dial connects to cfg.RPCURL and checks that the node serves the configured chain.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL required")
	}

	rpc, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.RPCURL, err)
	}

	client, err := NewClient(rpc, cfg)
	if err != nil {
		rpc.Close()
		return nil, err
	}
	client.close = rpc.Close

	remote, err := rpc.ChainID(ctx)
	if err != nil {
		rpc.Close()
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	if cfg.ChainID != 0 && remote.Int64() != cfg.ChainID {
		rpc.Close()
		return nil, fmt.Errorf("%w: expected chain %d, got %s", ErrWrongNetwork, cfg.ChainID, remote)
	}
	client.chainID = remote

	return client, nil
}

// NewClient wraps an existing backend.
func NewClient(backend Backend, cfg Config) (*Client, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}
	cfg = cfg.withDefaults()

	return &Client{
		backend:  backend,
		contract: common.HexToAddress(cfg.ContractAddress),
		chainID:  big.NewInt(cfg.ChainID),
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}

func (c *Client) ContractAddress() common.Address { return c.contract }

func (c *Client) ChainID() *big.Int { return new(big.Int).Set(c.chainID) }

func (c *Client) StartBlock() uint64 { return c.cfg.StartBlock }

func (c *Client) timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

// ContractStatus is the outcome of VerifyContract.
type ContractStatus struct {
	Address  string `json:"address"`
	ChainID  int64  `json:"chain_id"`
	Deployed bool   `json:"deployed"`
	Owner    string `json:"owner,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

// VerifyContract checks that code exists at the contract address and that
// owner() answers. A failing owner() call only produces a warning.
func (c *Client) VerifyContract(ctx context.Context) (*ContractStatus, error) {
	status := &ContractStatus{Address: c.contract.Hex(), ChainID: c.chainID.Int64()}

	cctx, cancel := c.timeout(ctx)
	defer cancel()

	code, err := c.backend.CodeAt(cctx, c.contract, nil)
	if err != nil {
		return status, fmt.Errorf("failed to verify contract: %w", err)
	}
	if len(code) == 0 {
		return status, fmt.Errorf("%w: %s on chain %d", ErrNoContract, c.contract.Hex(), c.chainID.Int64())
	}
	status.Deployed = true

	owner, err := c.Owner(ctx)
	if err != nil {
		status.Warning = fmt.Sprintf("contract exists but ABI may not match: %v", err)
		return status, nil
	}
	status.Owner = units.AddressKey(owner)
	return status, nil
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	cctx, cancel := c.timeout(ctx)
	defer cancel()

	out, err := c.backend.CallContract(cctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}

	values, err := contractABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return values, nil
}

func (c *Client) Owner(ctx context.Context) (common.Address, error) {
	values, err := c.call(ctx, MethodOwner)
	if err != nil {
		return common.Address{}, err
	}
	return values[0].(common.Address), nil
}

func (c *Client) Creator(ctx context.Context, creator common.Address) (*models.CreatorOnChain, error) {
	values, err := c.call(ctx, MethodCreators, creator)
	if err != nil {
		return nil, err
	}
	if len(values) != 5 {
		return nil, fmt.Errorf("unexpected creators() output: %d values", len(values))
	}

	return &models.CreatorOnChain{
		Address:         units.AddressKey(creator),
		Name:            values[0].(string),
		SubscriptionFee: values[1].(*big.Int),
		PlatformShare:   values[2].(*big.Int).Uint64(),
		CreatorBalance:  values[3].(*big.Int),
		PlatformBalance: values[4].(*big.Int),
	}, nil
}

func (c *Client) RegisteredCreators(ctx context.Context) ([]common.Address, error) {
	values, err := c.call(ctx, MethodGetRegisteredCreators)
	if err != nil {
		return nil, err
	}
	return values[0].([]common.Address), nil
}

func (c *Client) Subscribers(ctx context.Context, creator common.Address) ([]common.Address, error) {
	values, err := c.call(ctx, MethodGetSubscribers, creator)
	if err != nil {
		return nil, err
	}
	return values[0].([]common.Address), nil
}

func (c *Client) IsSubscribed(ctx context.Context, user, creator common.Address) (bool, error) {
	values, err := c.call(ctx, MethodIsSubscribed, user, creator)
	if err != nil {
		return false, err
	}
	return values[0].(bool), nil
}

// SubscriptionExpiry returns the unix time at which user's access to creator ends.
// Zero means the user never subscribed.
func (c *Client) SubscriptionExpiry(ctx context.Context, user, creator common.Address) (int64, error) {
	values, err := c.call(ctx, MethodSubscriptions, user, creator)
	if err != nil {
		return 0, err
	}
	return values[0].(*big.Int).Int64(), nil
}

// CreatorName calls getCreatorName. Deployments without the method revert or
// return empty data, both reported as ErrMethodUnavailable.
func (c *Client) CreatorName(ctx context.Context, creator common.Address) (string, error) {
	values, err := c.call(ctx, MethodGetCreatorName, creator)
	if err != nil {
		if isMissingMethod(err) {
			return "", fmt.Errorf("%w: %s", ErrMethodUnavailable, MethodGetCreatorName)
		}
		return "", err
	}
	return strings.TrimSpace(values[0].(string)), nil
}

func isMissingMethod(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "execution reverted") ||
		strings.Contains(msg, "empty string") ||
		strings.Contains(msg, "abi: attempting to unmarshal")
}

func (c *Client) LatestBlock(ctx context.Context) (uint64, error) {
	cctx, cancel := c.timeout(ctx)
	defer cancel()

	n, err := c.backend.BlockNumber(cctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get block number: %w", err)
	}
	return n, nil
}

func (c *Client) BlockTime(ctx context.Context, hash common.Hash) (time.Time, error) {
	cctx, cancel := c.timeout(ctx)
	defer cancel()

	header, err := c.backend.HeaderByHash(cctx, hash)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get block %s: %w", hash.Hex(), err)
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}

// TxDetails is the part of a transaction shown in subscription history.
type TxDetails struct {
	Hash     string
	Value    *big.Int
	GasLimit uint64
}

func (c *Client) TransactionDetails(ctx context.Context, hash common.Hash) (*TxDetails, error) {
	cctx, cancel := c.timeout(ctx)
	defer cancel()

	tx, _, err := c.backend.TransactionByHash(cctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", hash.Hex(), err)
	}
	return &TxDetails{Hash: hash.Hex(), Value: tx.Value(), GasLimit: tx.Gas()}, nil
}
