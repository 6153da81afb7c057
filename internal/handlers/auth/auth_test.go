package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/kmosolov/bankcards/internal/domain"
	"github.com/kmosolov/bankcards/internal/dto"
	"github.com/kmosolov/bankcards/internal/service/authservice"
)

func NewMock(t *testing.T) (*AuthHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func TestRegisterHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful registration",
			body: `{"username":"testuser","password":"testpassword"}`,
			prepareMock: func() {
				service.EXPECT().Register(context.Background(), "testuser", "testpassword").
					Return(&domain.User{ID: 1, Username: "testuser", Role: domain.RoleUser}, nil)
				service.EXPECT().GenerateToken(int64(1), domain.RoleUser).Return("generated-token", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "Invalid request body",
			body:          `{"username":invalid}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name:          "Missing credentials",
			body:          `{"username":"testuser"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Username and password are required",
		},
		{
			name: "Username already taken",
			body: `{"username":"testuser","password":"testpassword"}`,
			prepareMock: func() {
				service.EXPECT().Register(context.Background(), "testuser", "testpassword").
					Return(nil, authservice.ErrUsernameTaken)
			},
			expectedCode:  http.StatusConflict,
			expectedError: "username already taken",
		},
		{
			name: "Internal server error",
			body: `{"username":"testuser","password":"testpassword"}`,
			prepareMock: func() {
				service.EXPECT().Register(context.Background(), "testuser", "testpassword").
					Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Register(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				assert.Equal(t, "Bearer generated-token", w.Header().Get("Authorization"))
				var body dto.AuthResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, "generated-token", body.Token)
				assert.Equal(t, "Bearer", body.Type)
				assert.Equal(t, "testuser", body.Username)
				assert.Equal(t, "USER", body.Role)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful login",
			body: `{"username":"admin","password":"admin123"}`,
			prepareMock: func() {
				service.EXPECT().Authenticate(context.Background(), "admin", "admin123").
					Return(&domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin}, nil)
				service.EXPECT().GenerateToken(int64(1), domain.RoleAdmin).Return("generated-token", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "Invalid request body",
			body:          `{"username":invalid}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "Invalid credentials",
			body: `{"username":"admin","password":"wrong"}`,
			prepareMock: func() {
				service.EXPECT().Authenticate(context.Background(), "admin", "wrong").
					Return(nil, errors.New("invalid credentials"))
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Invalid credentials",
		},
		{
			name: "Token generation failure",
			body: `{"username":"admin","password":"admin123"}`,
			prepareMock: func() {
				service.EXPECT().Authenticate(context.Background(), "admin", "admin123").
					Return(&domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin}, nil)
				service.EXPECT().GenerateToken(int64(1), domain.RoleAdmin).Return("", errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Error generating token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Login(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				var body dto.AuthResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, "generated-token", body.Token)
				assert.Equal(t, "ADMIN", body.Role)
			}
		})
	}
}
