package create

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/maratbr/classifieds-board/internal/http/middlewarectx"
	"github.com/maratbr/classifieds-board/internal/lib/authz"
	"github.com/maratbr/classifieds-board/internal/models"
	"github.com/maratbr/classifieds-board/internal/storage/repository"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, caller *models.User, ownerID int, req models.DummyAdvertisement, state string) (*models.Advertisement, error) {
	args := m.Called(ctx, caller, ownerID, req, state)
	if res := args.Get(0); res != nil {
		return res.(*models.Advertisement), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(caller *models.User, userID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/users/"+userID+"/advertisements/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("user_id", userID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	return req.WithContext(context.WithValue(req.Context(), middlewarectx.CurrentUser, caller))
}

func TestCreateAdvertisementHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := &models.User{ID: 3, Email: "client@example.com", Role: models.RoleClient, IsActive: true}

	tests := []struct {
		name           string
		state          string
		caller         *models.User
		userID         string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "успешное создание объявления",
			state:  models.StateActive,
			caller: client,
			userID: "3",
			body:   `{"title":"Bike","body":"barely used"}`,
			setupMock: func(m *MockService) {
				title := "Bike"
				m.On("Create", mock.Anything, client, 3, mock.MatchedBy(func(req models.DummyAdvertisement) bool {
					return req.Body == "barely used" && req.Title != nil && *req.Title == "Bike"
				}), models.StateActive).
					Return(&models.Advertisement{ID: 42, Title: &title, Body: "barely used", OwnerID: 3, State: models.StateActive}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"state":"active"`,
		},
		{
			name:   "создание черновика без заголовка",
			state:  models.StateDraft,
			caller: client,
			userID: "3",
			body:   `{"body":"work in progress"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, client, 3, mock.MatchedBy(func(req models.DummyAdvertisement) bool {
					return req.Title == nil
				}), models.StateDraft).
					Return(&models.Advertisement{ID: 43, Body: "work in progress", OwnerID: 3, State: models.StateDraft}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"state":"draft"`,
		},
		{
			name:           "некорректный user_id",
			state:          models.StateActive,
			caller:         client,
			userID:         "abc",
			body:           `{"body":"text"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"failed to decode user_id from url"`,
		},
		{
			name:           "пустое тело объявления",
			state:          models.StateActive,
			caller:         client,
			userID:         "3",
			body:           `{"title":"Bike"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `is a required field`,
		},
		{
			name:   "чужой владелец",
			state:  models.StateActive,
			caller: client,
			userID: "4",
			body:   `{"body":"text"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, client, 4, mock.Anything, models.StateActive).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"not found"`,
		},
		{
			name:   "роль без права создания",
			state:  models.StateActive,
			caller: &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true},
			userID: "1",
			body:   `{"body":"text"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, 1, mock.Anything, models.StateActive).
					Return(nil, authz.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"operation not permitted"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, tt.state)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, newRequest(tt.caller, tt.userID, tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
