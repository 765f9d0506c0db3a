package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"windfall/domain"
	"windfall/domain/entities"
	"windfall/domain/testhelpers"
)

// newTestRouter wires both controllers the way the server does, sharing one
// stats instance.
func newTestRouter(service *testhelpers.MockWindowService) (*gin.Engine, *SubmissionStats) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	store := cookie.NewStore([]byte("test-session-secret"))
	engine.Use(sessions.Sessions("windfall", store))

	stats := NewSubmissionStats()
	NewClaimController(engine.Group("/api"), service, stats)
	NewPanelController(engine.Group("/panel"), service, stats)
	return engine, stats
}

func TestWindowStateMasksWinners(t *testing.T) {
	mockService := &testhelpers.MockWindowService{}
	mockService.On("State", mock.Anything).Return(&entities.WindowStatus{
		IsOpen:           true,
		RemainingSeconds: 42,
		RecentWinners: []*entities.Claim{
			{
				PayoutMethod: "paypal",
				PayoutID:     "winner@example.com",
				SubmittedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}, nil)

	engine, _ := newTestRouter(mockService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/window", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Open             bool  `json:"open"`
		RemainingSeconds int64 `json:"remainingSeconds"`
		RecentWinners    []struct {
			PayoutMethod string `json:"payoutMethod"`
			PayoutID     string `json:"payoutId"`
		} `json:"recentWinners"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Open)
	assert.Equal(t, int64(42), body.RemainingSeconds)
	require.Len(t, body.RecentWinners, 1)
	assert.Equal(t, "paypal", body.RecentWinners[0].PayoutMethod)
	assert.Equal(t, "wi"+strings.Repeat("*", 14)+"om", body.RecentWinners[0].PayoutID)
	assert.NotContains(t, w.Body.String(), "winner@example.com")
}

func TestWindowStateFailure(t *testing.T) {
	mockService := &testhelpers.MockWindowService{}
	mockService.On("State", mock.Anything).Return(nil, fmt.Errorf("failed to load recent winners: %w", domain.StorageError{Op: "list recent winners"}))

	engine, _ := newTestRouter(mockService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/window", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "internal error"}`, w.Body.String())
}

func TestSubmitClaim(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		setupMock   func(*testhelpers.MockWindowService)
		wantStatus  int
		wantWinner  bool
		errContains string
	}{
		{
			name: "accepted winner",
			body: `{"payoutMethod": "paypal", "payoutId": "winner@example.com", "captchaToken": "tok"}`,
			setupMock: func(m *testhelpers.MockWindowService) {
				m.On("Submit", mock.Anything, "paypal", "winner@example.com", "tok", "192.0.2.1").
					Return(&entities.SubmitResult{
						Accepted:  true,
						Winner:    true,
						Position:  1,
						ClaimID:   7,
						Reference: "11111111-2222-3333-4444-555555555555",
					}, nil)
			},
			wantStatus: http.StatusOK,
			wantWinner: true,
		},
		{
			name: "accepted non-winner",
			body: `{"payoutMethod": "venmo", "payoutId": "@someone", "captchaToken": "tok"}`,
			setupMock: func(m *testhelpers.MockWindowService) {
				m.On("Submit", mock.Anything, "venmo", "@someone", "tok", "192.0.2.1").
					Return(&entities.SubmitResult{
						Accepted:  true,
						Winner:    false,
						Position:  3,
						ClaimID:   8,
						Reference: "11111111-2222-3333-4444-666666666666",
					}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "window closed",
			body: `{"payoutMethod": "paypal", "payoutId": "late@example.com"}`,
			setupMock: func(m *testhelpers.MockWindowService) {
				m.On("Submit", mock.Anything, "paypal", "late@example.com", "", "192.0.2.1").
					Return(nil, domain.WindowClosedError{})
			},
			wantStatus:  http.StatusBadRequest,
			errContains: "claim window is closed",
		},
		{
			name: "validation rejected",
			body: `{"payoutMethod": "", "payoutId": "x@example.com"}`,
			setupMock: func(m *testhelpers.MockWindowService) {
				m.On("Submit", mock.Anything, "", "x@example.com", "", "192.0.2.1").
					Return(nil, domain.ValidationError{Field: "payoutMethod", Reason: "must not be empty"})
			},
			wantStatus:  http.StatusBadRequest,
			errContains: "payoutMethod",
		},
		{
			name: "storage failure hidden",
			body: `{"payoutMethod": "paypal", "payoutId": "x@example.com"}`,
			setupMock: func(m *testhelpers.MockWindowService) {
				m.On("Submit", mock.Anything, "paypal", "x@example.com", "", "192.0.2.1").
					Return(nil, fmt.Errorf("failed to insert claim: %w", domain.StorageError{Op: "insert claim"}))
			},
			wantStatus:  http.StatusInternalServerError,
			errContains: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &testhelpers.MockWindowService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			engine, _ := newTestRouter(mockService)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/claims", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.errContains != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Contains(t, body["error"], tt.errContains)
			} else {
				var body struct {
					Accepted  bool   `json:"accepted"`
					Winner    bool   `json:"winner"`
					Reference string `json:"reference"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.True(t, body.Accepted)
				assert.Equal(t, tt.wantWinner, body.Winner)
				assert.NotEmpty(t, body.Reference)
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestSubmitClaimMalformedBody(t *testing.T) {
	mockService := &testhelpers.MockWindowService{}
	engine, stats := newTestRouter(mockService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/claims", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	_, rejected, _ := stats.Snapshot()
	assert.Equal(t, int64(1), rejected)
}

func TestSubmitClaimCountsOutcomes(t *testing.T) {
	mockService := &testhelpers.MockWindowService{}
	mockService.On("Submit", mock.Anything, "paypal", "a@example.com", "", "192.0.2.1").
		Return(&entities.SubmitResult{Accepted: true, Winner: true, ClaimID: 1, Reference: "r1"}, nil).Once()
	mockService.On("Submit", mock.Anything, "paypal", "b@example.com", "", "192.0.2.1").
		Return(&entities.SubmitResult{Accepted: true, Winner: false, ClaimID: 2, Reference: "r2"}, nil).Once()
	mockService.On("Submit", mock.Anything, "paypal", "c@example.com", "", "192.0.2.1").
		Return(nil, domain.WindowClosedError{}).Once()

	engine, stats := newTestRouter(mockService)

	for _, payoutID := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		w := httptest.NewRecorder()
		body := fmt.Sprintf(`{"payoutMethod": "paypal", "payoutId": %q}`, payoutID)
		req := httptest.NewRequest(http.MethodPost, "/api/claims", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)
	}

	accepted, rejected, winners := stats.Snapshot()
	assert.Equal(t, int64(2), accepted)
	assert.Equal(t, int64(1), rejected)
	assert.Equal(t, int64(1), winners)
}
