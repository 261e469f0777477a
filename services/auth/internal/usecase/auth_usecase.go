package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"creatorpay/pkg/eth"
	"creatorpay/pkg/jwt"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/models"
	"creatorpay/pkg/units"
	"creatorpay/services/auth/internal/entity"
	"creatorpay/services/auth/internal/repo/cache"
	"creatorpay/services/auth/internal/repo/persistent"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

const NonceTTL = 5 * time.Minute

var ErrAccountNotFound = errors.New("account not found")

// ChainReader resolves the role of a wallet from contract state.
type ChainReader interface {
	Owner(ctx context.Context) (common.Address, error)
	Creator(ctx context.Context, creator common.Address) (*models.CreatorOnChain, error)
}

type AuthUseCase interface {
	Nonce(ctx context.Context, address string) (*entity.Challenge, error)
	Login(ctx context.Context, address, signature string) (*entity.Session, error)
	Me(ctx context.Context, address string) (*entity.Account, error)
}

type authUseCase struct {
	chain       ChainReader
	nonceStore  cache.NonceStore
	accountRepo persistent.AccountRepository
	jwtService  *jwt.Service
	logger      *logger.Logger
	now         func() time.Time

	ownerMu sync.Mutex
	owner   *common.Address
}

func NewAuthUseCase(
	chain ChainReader,
	nonceStore cache.NonceStore,
	accountRepo persistent.AccountRepository,
	jwtService *jwt.Service,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		chain:       chain,
		nonceStore:  nonceStore,
		accountRepo: accountRepo,
		jwtService:  jwtService,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *authUseCase) Nonce(ctx context.Context, address string) (*entity.Challenge, error) {
	key, err := units.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	nonce := uuid.New().String()
	if err := uc.nonceStore.Save(ctx, key, nonce, NonceTTL); err != nil {
		return nil, err
	}

	return &entity.Challenge{
		Address:   key,
		Nonce:     nonce,
		Message:   eth.LoginMessage(common.HexToAddress(key).Hex(), nonce),
		ExpiresAt: uc.now().Add(NonceTTL).UTC(),
	}, nil
}

// Login consumes the pending nonce before checking the signature, so a
// failed attempt needs a fresh challenge.
func (uc *authUseCase) Login(ctx context.Context, address, signature string) (*entity.Session, error) {
	key, err := units.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	nonce, err := uc.nonceStore.Consume(ctx, key)
	if err != nil {
		return nil, err
	}

	wallet := common.HexToAddress(key)
	if err := eth.VerifySignature(wallet, eth.LoginMessage(wallet.Hex(), nonce), signature); err != nil {
		return nil, err
	}

	role := uc.resolveRole(ctx, wallet)

	token, err := uc.jwtService.GenerateToken(key, role)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	if err := uc.accountRepo.RecordLogin(key, role, now); err != nil {
		uc.logger.Warn("Failed to record login for %s: %v", key, err)
	}

	return &entity.Session{
		Token:     token,
		Address:   key,
		Role:      role,
		ExpiresAt: now.Add(uc.jwtService.TTL()),
	}, nil
}

func (uc *authUseCase) Me(ctx context.Context, address string) (*entity.Account, error) {
	account, err := uc.accountRepo.GetByAddress(address)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// resolveRole falls back to RoleUser when the chain cannot be read so that
// logins keep working during RPC outages.
func (uc *authUseCase) resolveRole(ctx context.Context, wallet common.Address) string {
	owner, err := uc.contractOwner(ctx)
	if err != nil {
		uc.logger.Warn("Failed to read contract owner: %v", err)
	} else if owner == wallet {
		return jwt.RoleAdmin
	}

	creator, err := uc.chain.Creator(ctx, wallet)
	if err != nil {
		uc.logger.Warn("Failed to read creator %s: %v", wallet.Hex(), err)
		return jwt.RoleUser
	}
	if creator.IsRegistered() {
		return jwt.RoleCreator
	}
	return jwt.RoleUser
}

func (uc *authUseCase) contractOwner(ctx context.Context) (common.Address, error) {
	uc.ownerMu.Lock()
	defer uc.ownerMu.Unlock()

	if uc.owner != nil {
		return *uc.owner, nil
	}
	owner, err := uc.chain.Owner(ctx)
	if err != nil {
		return common.Address{}, err
	}
	uc.owner = &owner
	return owner, nil
}
