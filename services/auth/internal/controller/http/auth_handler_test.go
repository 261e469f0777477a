package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"creatorpay/pkg/eth"
	"creatorpay/pkg/units"
	"creatorpay/services/auth/internal/entity"
	"creatorpay/services/auth/internal/repo/cache"
	"creatorpay/services/auth/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const wallet = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Nonce(ctx context.Context, address string) (*entity.Challenge, error) {
	args := m.Called(ctx, address)
	ch, _ := args.Get(0).(*entity.Challenge)
	return ch, args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, address, signature string) (*entity.Session, error) {
	args := m.Called(ctx, address, signature)
	s, _ := args.Get(0).(*entity.Session)
	return s, args.Error(1)
}

func (m *MockAuthUseCase) Me(ctx context.Context, address string) (*entity.Account, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(*entity.Account)
	return a, args.Error(1)
}

func setupAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNonce_Success(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	handler := NewAuthHandler(mockUseCase)
	r := setupAuthTestRouter()
	r.POST("/auth/nonce", handler.Nonce)

	mockUseCase.On("Nonce", mock.Anything, wallet).Return(&entity.Challenge{
		Address: "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266",
		Nonce:   "abc",
		Message: "Sign in",
	}, nil)

	w := postJSON(r, "/auth/nonce", NonceRequest{Address: wallet})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp entity.Challenge
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc", resp.Nonce)
}

func TestNonce_Errors(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	handler := NewAuthHandler(mockUseCase)
	r := setupAuthTestRouter()
	r.POST("/auth/nonce", handler.Nonce)

	mockUseCase.On("Nonce", mock.Anything, "bogus").Return(nil, units.ErrInvalidAddress)

	w := postJSON(r, "/auth/nonce", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/auth/nonce", NonceRequest{Address: "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "bad signature", err: eth.ErrBadSignature, wantStatus: http.StatusUnauthorized},
		{name: "expired nonce", err: cache.ErrNonceNotFound, wantStatus: http.StatusUnauthorized},
		{name: "internal", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := new(MockAuthUseCase)
			handler := NewAuthHandler(mockUseCase)
			r := setupAuthTestRouter()
			r.POST("/auth/login", handler.Login)

			if tt.err != nil {
				mockUseCase.On("Login", mock.Anything, wallet, "0xsig").Return(nil, tt.err)
			} else {
				mockUseCase.On("Login", mock.Anything, wallet, "0xsig").Return(&entity.Session{Token: "jwt", Role: "creator"}, nil)
			}

			w := postJSON(r, "/auth/login", LoginRequest{Address: wallet, Signature: "0xsig"})

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.err == nil {
				var resp entity.Session
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "jwt", resp.Token)
			}
		})
	}
}

func TestMe(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	handler := NewAuthHandler(mockUseCase)
	r := setupAuthTestRouter()
	r.GET("/auth/me", func(c *gin.Context) {
		c.Set("user_id", "0xabc")
		c.Next()
	}, handler.Me)
	r.GET("/anon/me", handler.Me)

	mockUseCase.On("Me", mock.Anything, "0xabc").Return(nil, usecase.ErrAccountNotFound)

	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/anon/me", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
