package update

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

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, caller *models.User, ownerID, id int, req models.DummyAdvertisement, state string) (*models.Advertisement, error) {
	args := m.Called(ctx, caller, ownerID, id, req, state)
	if res := args.Get(0); res != nil {
		return res.(*models.Advertisement), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(caller *models.User, userID, advertisementID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut,
		"/users/"+userID+"/advertisements/"+advertisementID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("user_id", userID)
	rctx.URLParams.Add("advertisement_id", advertisementID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	return req.WithContext(context.WithValue(req.Context(), middlewarectx.CurrentUser, caller))
}

func TestUpdateAdvertisementHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := &models.User{ID: 3, Email: "client@example.com", Role: models.RoleClient, IsActive: true}

	tests := []struct {
		name            string
		state           string
		caller          *models.User
		userID          string
		advertisementID string
		body            string
		setupMock       func(*MockService)
		expectedStatus  int
		expectedBody    string
	}{
		{
			name:            "успешное обновление объявления",
			state:           models.StateActive,
			caller:          client,
			userID:          "3",
			advertisementID: "42",
			body:            `{"title":"Bike","body":"price lowered"}`,
			setupMock: func(m *MockService) {
				title := "Bike"
				m.On("Update", mock.Anything, client, 3, 42, mock.MatchedBy(func(req models.DummyAdvertisement) bool {
					return req.Body == "price lowered" && req.Title != nil && *req.Title == "Bike"
				}), models.StateActive).
					Return(&models.Advertisement{ID: 42, Title: &title, Body: "price lowered", OwnerID: 3, State: models.StateActive}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"state":"active"`,
		},
		{
			name:            "обновление через маршрут черновиков сохраняет состояние",
			state:           models.StateDraft,
			caller:          client,
			userID:          "3",
			advertisementID: "50",
			body:            `{"body":"still drafting"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, client, 3, 50, mock.Anything, models.StateDraft).
					Return(&models.Advertisement{ID: 50, Body: "still drafting", OwnerID: 3, State: models.StateDraft}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"state":"draft"`,
		},
		{
			name:            "некорректный advertisement_id",
			state:           models.StateActive,
			caller:          client,
			userID:          "3",
			advertisementID: "abc",
			body:            `{"body":"text"}`,
			setupMock:       func(_ *MockService) {},
			expectedStatus:  http.StatusBadRequest,
			expectedBody:    `"failed to decode advertisement_id from url"`,
		},
		{
			name:            "пустое тело объявления",
			state:           models.StateActive,
			caller:          client,
			userID:          "3",
			advertisementID: "42",
			body:            `{"title":"Bike"}`,
			setupMock:       func(_ *MockService) {},
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedBody:    `is a required field`,
		},
		{
			name:            "чужой владелец",
			state:           models.StateActive,
			caller:          client,
			userID:          "4",
			advertisementID: "42",
			body:            `{"body":"text"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, client, 4, 42, mock.Anything, models.StateActive).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"not found"`,
		},
		{
			name:            "роль без права обновления",
			state:           models.StateActive,
			caller:          &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true},
			userID:          "3",
			advertisementID: "42",
			body:            `{"body":"text"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, mock.Anything, 3, 42, mock.Anything, models.StateActive).
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
			handler.ServeHTTP(w, newRequest(tt.caller, tt.userID, tt.advertisementID, tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
