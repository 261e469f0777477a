package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/big"
	"testing"
	"time"

	"creatorpay/pkg/eth"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/models"
	"creatorpay/pkg/units"
	"creatorpay/services/creator/internal/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	creatorAddr = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	creatorKey  = units.AddressKey(creatorAddr)
	subscriber1 = common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")
	subscriber2 = common.HexToAddress("0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65")
)

type MockChain struct {
	mock.Mock
}

func (m *MockChain) VerifyContract(ctx context.Context) (*eth.ContractStatus, error) {
	args := m.Called(ctx)
	status, _ := args.Get(0).(*eth.ContractStatus)
	return status, args.Error(1)
}

func (m *MockChain) Creator(ctx context.Context, creator common.Address) (*models.CreatorOnChain, error) {
	args := m.Called(ctx, creator)
	c, _ := args.Get(0).(*models.CreatorOnChain)
	return c, args.Error(1)
}

func (m *MockChain) Subscribers(ctx context.Context, creator common.Address) ([]common.Address, error) {
	args := m.Called(ctx, creator)
	addrs, _ := args.Get(0).([]common.Address)
	return addrs, args.Error(1)
}

func (m *MockChain) StartBlock() uint64 { return 0 }

func (m *MockChain) GetLogsPaginated(ctx context.Context, q eth.LogQuery) ([]types.Log, error) {
	args := m.Called(ctx, q)
	logs, _ := args.Get(0).([]types.Log)
	return logs, args.Error(1)
}

func (m *MockChain) BlockTime(ctx context.Context, hash common.Hash) (time.Time, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockChain) TransactionDetails(ctx context.Context, hash common.Hash) (*eth.TxDetails, error) {
	args := m.Called(ctx, hash)
	tx, _ := args.Get(0).(*eth.TxDetails)
	return tx, args.Error(1)
}

func (m *MockChain) PrepareRegisterCreator(fee *big.Int, platformShare uint64) (*eth.PreparedTx, error) {
	args := m.Called(fee, platformShare)
	tx, _ := args.Get(0).(*eth.PreparedTx)
	return tx, args.Error(1)
}

func (m *MockChain) PrepareWithdrawCreatorEarnings() (*eth.PreparedTx, error) {
	args := m.Called()
	tx, _ := args.Get(0).(*eth.PreparedTx)
	return tx, args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByAddress(address string) (*entity.Profile, error) {
	args := m.Called(address)
	p, _ := args.Get(0).(*entity.Profile)
	return p, args.Error(1)
}

func (m *MockProfileRepository) SaveName(address, name string) error {
	return m.Called(address, name).Error(0)
}

func (m *MockProfileRepository) ClearName(address string) error {
	return m.Called(address).Error(0)
}

func (m *MockProfileRepository) ListNamed() ([]*entity.Profile, error) {
	args := m.Called()
	p, _ := args.Get(0).([]*entity.Profile)
	return p, args.Error(1)
}

func (m *MockProfileRepository) SaveAvatar(address, avatarURL string) error {
	return m.Called(address, avatarURL).Error(0)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) ListByCreator(creator string, limit int) ([]*entity.Activity, error) {
	args := m.Called(creator, limit)
	a, _ := args.Get(0).([]*entity.Activity)
	return a, args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadFile(key string, body io.Reader, contentType string) (string, error) {
	args := m.Called(key, body, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteFile(key string) error {
	return m.Called(key).Error(0)
}

type fixture struct {
	chain    *MockChain
	profiles *MockProfileRepository
	activity *MockActivityRepository
	storage  *MockStorage
	uc       CreatorUseCase
}

func newFixture() *fixture {
	f := &fixture{
		chain:    new(MockChain),
		profiles: new(MockProfileRepository),
		activity: new(MockActivityRepository),
		storage:  new(MockStorage),
	}
	f.uc = NewCreatorUseCase(f.chain, f.profiles, f.activity, f.storage, logger.New())
	return f
}

func registered(name string, creatorBalance int64) *models.CreatorOnChain {
	return &models.CreatorOnChain{
		Address:         creatorKey,
		Name:            name,
		SubscriptionFee: big.NewInt(10_000_000_000_000_000),
		PlatformShare:   10,
		CreatorBalance:  big.NewInt(creatorBalance),
		PlatformBalance: big.NewInt(2_000_000_000_000_000),
	}
}

func subscribedLog(t *testing.T, user common.Address, expiresAt int64, block uint64, index uint) types.Log {
	t.Helper()
	ev := eth.ContractABI().Events[eth.EventSubscribed]
	data, err := ev.Inputs.NonIndexed().Pack(big.NewInt(expiresAt))
	require.NoError(t, err)
	return types.Log{
		Topics:      []common.Hash{ev.ID, eth.AddressTopic(user), eth.AddressTopic(creatorAddr)},
		Data:        data,
		BlockNumber: block,
		BlockHash:   common.BigToHash(new(big.Int).SetUint64(block)),
		TxHash:      common.BigToHash(new(big.Int).SetUint64(block*100 + uint64(index))),
		Index:       index,
	}
}

func TestGetDashboard_Registered(t *testing.T) {
	f := newFixture()
	f.chain.On("Creator", mock.Anything, creatorAddr).Return(registered("", 18_000_000_000_000_000), nil)
	f.chain.On("Subscribers", mock.Anything, creatorAddr).Return([]common.Address{subscriber1, subscriber2}, nil)
	f.profiles.On("GetByAddress", creatorKey).Return(&entity.Profile{Name: "Alice", AvatarURL: "https://cdn/a.png"}, nil)

	dashboard, err := f.uc.GetDashboard(context.Background(), creatorAddr.Hex())

	require.NoError(t, err)
	assert.True(t, dashboard.IsRegistered)
	assert.Equal(t, "Alice", dashboard.Name)
	assert.Equal(t, 2, dashboard.SubscriberCount)
	assert.Equal(t, "0.0180", dashboard.TotalEarnings.Eth)
	assert.Equal(t, "0.0100", dashboard.SubscriptionFee.Eth)
	assert.Equal(t, uint64(10), dashboard.PlatformShare)
	assert.Equal(t, "https://cdn/a.png", dashboard.AvatarURL)
}

func TestGetDashboard_UnregisteredIsUnnamed(t *testing.T) {
	f := newFixture()
	f.chain.On("Creator", mock.Anything, creatorAddr).Return(&models.CreatorOnChain{SubscriptionFee: big.NewInt(0)}, nil)
	f.profiles.On("GetByAddress", creatorKey).Return(nil, nil)

	dashboard, err := f.uc.GetDashboard(context.Background(), creatorKey)

	require.NoError(t, err)
	assert.False(t, dashboard.IsRegistered)
	assert.Equal(t, entity.UnnamedCreator, dashboard.Name)
	assert.Equal(t, 0, dashboard.SubscriberCount)
	f.chain.AssertNotCalled(t, "Subscribers", mock.Anything, mock.Anything)
}

func TestGetDashboard_OnChainNameWins(t *testing.T) {
	f := newFixture()
	f.chain.On("Creator", mock.Anything, creatorAddr).Return(registered("Digital Artist", 0), nil)
	f.chain.On("Subscribers", mock.Anything, creatorAddr).Return([]common.Address{}, nil)
	f.profiles.On("GetByAddress", creatorKey).Return(&entity.Profile{Name: "Alice"}, nil)

	dashboard, err := f.uc.GetDashboard(context.Background(), creatorKey)

	require.NoError(t, err)
	assert.Equal(t, "Digital Artist", dashboard.Name)
}

func TestGetActivities_FromIndex(t *testing.T) {
	f := newFixture()
	indexed := []*entity.Activity{{Subscriber: subscriber1.Hex(), BlockNumber: 9}}
	f.activity.On("ListByCreator", creatorKey, DefaultActivityLimit).Return(indexed, nil)

	activities, err := f.uc.GetActivities(context.Background(), creatorKey, 0)

	require.NoError(t, err)
	assert.Equal(t, indexed, activities)
	f.chain.AssertNotCalled(t, "GetLogsPaginated", mock.Anything, mock.Anything)
}

func TestGetActivities_ScansChainWhenIndexEmpty(t *testing.T) {
	f := newFixture()
	f.activity.On("ListByCreator", creatorKey, 10).Return([]*entity.Activity{}, nil)

	older := subscribedLog(t, subscriber1, 1_700_000_000, 10, 0)
	newer := subscribedLog(t, subscriber2, 1_700_086_400, 12, 3)
	f.chain.On("GetLogsPaginated", mock.Anything, mock.MatchedBy(func(q eth.LogQuery) bool {
		return len(q.Topics) == 3 && q.Topics[2][0] == eth.AddressTopic(creatorAddr)
	})).Return([]types.Log{older, newer}, nil)

	blockTime := time.Unix(1_699_990_000, 0).UTC()
	f.chain.On("BlockTime", mock.Anything, older.BlockHash).Return(blockTime, nil)
	f.chain.On("BlockTime", mock.Anything, newer.BlockHash).Return(time.Time{}, errors.New("not found"))
	f.chain.On("TransactionDetails", mock.Anything, older.TxHash).
		Return(&eth.TxDetails{Value: big.NewInt(10_000_000_000_000_000), GasLimit: 100000}, nil)
	f.chain.On("TransactionDetails", mock.Anything, newer.TxHash).
		Return(&eth.TxDetails{Value: big.NewInt(20_000_000_000_000_000), GasLimit: 90000}, nil)

	activities, err := f.uc.GetActivities(context.Background(), creatorKey, 10)

	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, subscriber2.Hex(), activities[0].Subscriber)
	assert.Nil(t, activities[0].BlockTime)
	assert.Equal(t, "0.0200", activities[0].AmountPaid.Eth)
	assert.Equal(t, subscriber1.Hex(), activities[1].Subscriber)
	require.NotNil(t, activities[1].BlockTime)
	assert.Equal(t, blockTime, *activities[1].BlockTime)
	assert.Equal(t, uint64(100000), activities[1].GasLimit)
	assert.Equal(t, int64(1_700_000_000), activities[1].ExpiresAt.Unix())
}

func TestGetActivities_LimitApplied(t *testing.T) {
	f := newFixture()
	f.activity.On("ListByCreator", creatorKey, 1).Return(nil, errors.New("db down"))

	logs := []types.Log{
		subscribedLog(t, subscriber1, 1_700_000_000, 10, 0),
		subscribedLog(t, subscriber2, 1_700_000_000, 11, 0),
	}
	f.chain.On("GetLogsPaginated", mock.Anything, mock.Anything).Return(logs, nil)
	f.chain.On("BlockTime", mock.Anything, mock.Anything).Return(time.Unix(1, 0), nil)
	f.chain.On("TransactionDetails", mock.Anything, mock.Anything).Return(&eth.TxDetails{Value: big.NewInt(1)}, nil)

	activities, err := f.uc.GetActivities(context.Background(), creatorKey, 1)

	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, uint64(11), activities[0].BlockNumber)
}

func TestPrepareRegistration(t *testing.T) {
	f := newFixture()
	prepared := &eth.PreparedTx{Method: eth.MethodRegisterCreator}
	f.chain.On("VerifyContract", mock.Anything).Return(&eth.ContractStatus{Deployed: true}, nil)
	f.chain.On("Creator", mock.Anything, creatorAddr).Return(&models.CreatorOnChain{SubscriptionFee: big.NewInt(0)}, nil)
	f.chain.On("PrepareRegisterCreator", big.NewInt(50_000_000_000_000_000), uint64(5)).Return(prepared, nil)

	tx, err := f.uc.PrepareRegistration(context.Background(), creatorKey, "0.05", 5)

	require.NoError(t, err)
	assert.Equal(t, prepared, tx)
}

func TestPrepareRegistration_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.uc.PrepareRegistration(context.Background(), creatorKey, "0.0001", 5)
	assert.ErrorIs(t, err, models.ErrFeeTooLow)

	_, err = f.uc.PrepareRegistration(context.Background(), creatorKey, "0.01", 31)
	assert.ErrorIs(t, err, models.ErrInvalidShare)

	f.chain.AssertNotCalled(t, "VerifyContract", mock.Anything)
}

func TestPrepareRegistration_NoContract(t *testing.T) {
	f := newFixture()
	f.chain.On("VerifyContract", mock.Anything).Return(nil, eth.ErrNoContract)

	_, err := f.uc.PrepareRegistration(context.Background(), creatorKey, "0.01", 10)
	assert.ErrorIs(t, err, eth.ErrNoContract)
}

func TestPrepareRegistration_AlreadyRegistered(t *testing.T) {
	f := newFixture()
	f.chain.On("VerifyContract", mock.Anything).Return(&eth.ContractStatus{Deployed: true}, nil)
	f.chain.On("Creator", mock.Anything, creatorAddr).Return(registered("", 0), nil)

	_, err := f.uc.PrepareRegistration(context.Background(), creatorKey, "0.01", 10)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestPrepareWithdrawal(t *testing.T) {
	f := newFixture()
	prepared := &eth.PreparedTx{Method: eth.MethodWithdrawCreatorEarnings}
	f.chain.On("Creator", mock.Anything, creatorAddr).Return(registered("", 5), nil)
	f.chain.On("PrepareWithdrawCreatorEarnings").Return(prepared, nil)

	tx, err := f.uc.PrepareWithdrawal(context.Background(), creatorKey)

	require.NoError(t, err)
	assert.Equal(t, prepared, tx)
}

func TestPrepareWithdrawal_NoFunds(t *testing.T) {
	f := newFixture()
	f.chain.On("Creator", mock.Anything, creatorAddr).Return(registered("", 0), nil)

	_, err := f.uc.PrepareWithdrawal(context.Background(), creatorKey)
	assert.ErrorIs(t, err, ErrNoFunds)
	assert.EqualError(t, err, "no funds available")
}

func TestPrepareWithdrawal_NotRegistered(t *testing.T) {
	f := newFixture()
	f.chain.On("Creator", mock.Anything, creatorAddr).Return(&models.CreatorOnChain{SubscriptionFee: big.NewInt(0)}, nil)

	_, err := f.uc.PrepareWithdrawal(context.Background(), creatorKey)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestSetName_TrimsAndSaves(t *testing.T) {
	f := newFixture()
	f.profiles.On("SaveName", creatorKey, "Alice").Return(nil)
	f.profiles.On("GetByAddress", creatorKey).Return(&entity.Profile{Address: creatorKey, Name: "Alice"}, nil)

	profile, err := f.uc.SetName(creatorAddr.Hex(), "  Alice  ")

	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)
}

func TestSetName_BlankIgnored(t *testing.T) {
	f := newFixture()
	f.profiles.On("GetByAddress", creatorKey).Return(nil, nil)

	profile, err := f.uc.SetName(creatorKey, "   ")

	require.NoError(t, err)
	assert.Equal(t, creatorKey, profile.Address)
	f.profiles.AssertNotCalled(t, "SaveName", mock.Anything, mock.Anything)
}

func TestSetName_TooLong(t *testing.T) {
	f := newFixture()
	_, err := f.uc.SetName(creatorKey, string(bytes.Repeat([]byte("a"), 65)))
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestGetName_FallsBackToDefault(t *testing.T) {
	f := newFixture()
	f.profiles.On("GetByAddress", creatorKey).Return(nil, nil)

	name, err := f.uc.GetName(creatorKey)

	require.NoError(t, err)
	assert.Equal(t, "Creator 0x3C44...93BC", name)
}

func TestHasName(t *testing.T) {
	f := newFixture()
	f.profiles.On("GetByAddress", creatorKey).Return(&entity.Profile{Name: " "}, nil)

	has, err := f.uc.HasName(creatorKey)

	require.NoError(t, err)
	assert.False(t, has)
}

func TestRemoveName(t *testing.T) {
	f := newFixture()
	f.profiles.On("ClearName", creatorKey).Return(nil)

	require.NoError(t, f.uc.RemoveName(creatorKey))
	f.profiles.AssertExpectations(t)
}

func TestListNames(t *testing.T) {
	f := newFixture()
	f.profiles.On("ListNamed").Return([]*entity.Profile{
		{Address: "0xaaa", Name: "Alice"},
		{Address: "0xbbb", Name: "  "},
	}, nil)

	names, err := f.uc.ListNames()

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"0xaaa": "Alice"}, names)
}

func TestUploadAvatar(t *testing.T) {
	f := newFixture()
	body := bytes.NewReader([]byte("png"))
	f.storage.On("UploadFile", "avatars/key.png", body, "image/png").Return("https://cdn/avatars/key.png", nil)
	f.profiles.On("SaveAvatar", creatorKey, "https://cdn/avatars/key.png").Return(nil)
	f.profiles.On("GetByAddress", creatorKey).Return(&entity.Profile{Address: creatorKey, AvatarURL: "https://cdn/avatars/key.png"}, nil)

	profile, err := f.uc.UploadAvatar(creatorKey, body, "avatars/key.png", "image/png")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn/avatars/key.png", profile.AvatarURL)
}

func TestUploadAvatar_DeletesObjectWhenProfileSaveFails(t *testing.T) {
	f := newFixture()
	body := bytes.NewReader([]byte("png"))
	f.storage.On("UploadFile", "avatars/key.png", body, "image/png").Return("https://cdn/avatars/key.png", nil)
	f.storage.On("DeleteFile", "avatars/key.png").Return(nil)
	f.profiles.On("SaveAvatar", creatorKey, "https://cdn/avatars/key.png").Return(errors.New("db down"))

	_, err := f.uc.UploadAvatar(creatorKey, body, "avatars/key.png", "image/png")

	assert.EqualError(t, err, "failed to update profile")
	f.storage.AssertExpectations(t)
}
