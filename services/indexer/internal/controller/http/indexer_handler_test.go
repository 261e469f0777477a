package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"creatorpay/services/indexer/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockIndexerUseCase struct {
	mock.Mock
}

func (m *MockIndexerUseCase) Sync(ctx context.Context) (*entity.SyncResult, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*entity.SyncResult)
	return r, args.Error(1)
}

func (m *MockIndexerUseCase) Status(ctx context.Context) (*entity.Status, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*entity.Status)
	return s, args.Error(1)
}

func setupIndexerTestRouter(handler *IndexerHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/indexer/status", handler.GetStatus)
	r.POST("/indexer/sync", handler.Sync)
	return r
}

func TestGetStatus(t *testing.T) {
	mockUseCase := new(MockIndexerUseCase)
	router := setupIndexerTestRouter(NewIndexerHandler(mockUseCase))

	mockUseCase.On("Status", mock.Anything).Return(&entity.Status{Cursor: 90, Latest: 100, Safe: 98, Lag: 8}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/indexer/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(8), response["lag"])
	assert.Equal(t, false, response["running"])
}

func TestGetStatus_RPCDown(t *testing.T) {
	mockUseCase := new(MockIndexerUseCase)
	router := setupIndexerTestRouter(NewIndexerHandler(mockUseCase))

	mockUseCase.On("Status", mock.Anything).Return(nil, errors.New("connection refused"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/indexer/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSync(t *testing.T) {
	mockUseCase := new(MockIndexerUseCase)
	router := setupIndexerTestRouter(NewIndexerHandler(mockUseCase))

	mockUseCase.On("Sync", mock.Anything).Return(&entity.SyncResult{Skipped: true}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/indexer/sync", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, true, response["skipped"])
}
