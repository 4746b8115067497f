package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/maratbr/classifieds-board/internal/models"
	authservice "github.com/maratbr/classifieds-board/internal/services/auth"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, rawPassword string) (*models.Token, error) {
	args := m.Called(ctx, email, rawPassword)
	if res := args.Get(0); res != nil {
		return res.(*models.Token), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		form           url.Values
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход",
			form: url.Values{"username": {"user@example.com"}, "password": {"secret-pass"}},
			setupMock: func(m *MockService) {
				token := &models.Token{
					Token:   "opaque-token",
					Expires: time.Now().UTC().Add(time.Hour),
					UserID:  7,
				}
				m.On("Login", mock.Anything, "user@example.com", "secret-pass").Return(token, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"access_token":"opaque-token"`,
		},
		{
			name:           "отсутствует пароль",
			form:           url.Values{"username": {"user@example.com"}},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"username and password are required"`,
		},
		{
			name: "неверные учётные данные",
			form: url.Values{"username": {"user@example.com"}, "password": {"wrong"}},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "user@example.com", "wrong").
					Return(nil, authservice.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"incorrect email or password"`,
		},
		{
			name: "ошибка сервиса",
			form: url.Values{"username": {"user@example.com"}, "password": {"secret-pass"}},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "user@example.com", "secret-pass").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not issue token"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

func TestLoginHandler_TokenType(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mockService := new(MockService)
	mockService.On("Login", mock.Anything, "user@example.com", "secret-pass").
		Return(&models.Token{Token: "opaque-token", Expires: time.Now().UTC().Add(time.Hour), UserID: 7}, nil)

	handler := New(logger, mockService)

	form := url.Values{"username": {"user@example.com"}, "password": {"secret-pass"}}
	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"token_type":"bearer"`)
}
