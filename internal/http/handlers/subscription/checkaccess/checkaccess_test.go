package checkaccess

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/persona-chat/internal/http/middlewarectx"
	"github.com/magabrotheeeer/persona-chat/internal/models"
)

type SubscriptionServiceMock struct {
	mock.Mock
}

func (m *SubscriptionServiceMock) CheckAccess(ctx context.Context, userID int64, characterID int) (models.AccessDecision, error) {
	args := m.Called(ctx, userID, characterID)
	return args.Get(0).(models.AccessDecision), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckAccessHandler_ServeHTTP(t *testing.T) {
	end := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		body           string
		decision       models.AccessDecision
		mockErr        error
		callsService   bool
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "granted",
			body:           `{"character_id":2}`,
			decision:       models.AccessDecision{HasAccess: true, PlanType: models.PlanAll, EndDate: &end},
			callsService:   true,
			wantStatusCode: http.StatusOK,
			wantBody:       `{"has_access":true,"plan_type":"all","end_date":"2026-03-04T09:00:00Z"}`,
		},
		{
			name:           "no subscription",
			body:           `{"character_id":2}`,
			decision:       models.AccessDecision{Reason: models.ReasonNoSubscription},
			callsService:   true,
			wantStatusCode: http.StatusOK,
			wantBody:       `{"has_access":false,"reason":"no_subscription"}`,
		},
		{
			name:           "expired",
			body:           `{"character_id":2}`,
			decision:       models.AccessDecision{Reason: models.ReasonExpired},
			callsService:   true,
			wantStatusCode: http.StatusOK,
			wantBody:       `{"has_access":false,"reason":"expired"}`,
		},
		{
			name: "another character",
			body: `{"character_id":2}`,
			decision: models.AccessDecision{Reason: models.ReasonNoAccess, PlanType: models.PlanSingle,
				EndDate: &end},
			callsService:   true,
			wantStatusCode: http.StatusOK,
			wantBody:       `{"has_access":false,"reason":"no_access","plan_type":"single","end_date":"2026-03-04T09:00:00Z"}`,
		},
		{
			name:           "missing character",
			body:           `{}`,
			wantStatusCode: http.StatusBadRequest,
			wantBody:       `{"error":"Требуется character_id"}`,
		},
		{
			name:           "zero character",
			body:           `{"character_id":0}`,
			wantStatusCode: http.StatusBadRequest,
			wantBody:       `{"error":"Требуется character_id"}`,
		},
		{
			name:           "service error",
			body:           `{"character_id":1}`,
			mockErr:        errors.New("redis and db down"),
			callsService:   true,
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(SubscriptionServiceMock)
			if tt.callsService {
				svc.On("CheckAccess", mock.Anything, int64(7), mock.Anything).Return(tt.decision, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/subscription/check-access", bytes.NewBufferString(tt.body))
			req = req.WithContext(middlewarectx.WithUser(req.Context(), 7))
			rec := httptest.NewRecorder()
			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
