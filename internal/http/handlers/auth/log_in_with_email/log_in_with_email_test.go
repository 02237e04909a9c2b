package loginwithemail

import (
	c "authstation/internal/core/domain/common"
	ratelimiter "authstation/internal/core/domain/rate_limiter"
	"authstation/internal/core/domain/user"
	service "authstation/internal/core/services/log_in_with_email"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	result service.Result
	err    error
	input  *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (service.Result, error) {
	s.input = &input
	return s.result, s.err
}

func TestLogInWithEmailHandlerSuccess(t *testing.T) {
	now := time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)
	s := &stubService{
		result: service.Result{
			Tokens: user.TokenPair{Access: "access-token", Refresh: "refresh-token"},
			User: user.User{
				ID:          42,
				Email:       c.NewEmail("test@test.test"),
				CreatedAt:   now,
				UpdatedAt:   now,
				ActivatedAt: c.NewOptional(now, true),
			},
		},
	}
	handler := New(s)
	req := httptest.NewRequest(
		http.MethodPost,
		"/auth/login",
		strings.NewReader(`{"email":"TEST@test.test","password":"secret-password"}`),
	)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, s.input)
	assert.Equal(t, c.NewEmail("test@test.test"), s.input.Email)
	assert.Equal(t, user.RawPassword("secret-password"), s.input.Password)

	res := Result{}
	require.Nil(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "access-token", res.Access)
	assert.Equal(t, "refresh-token", res.Refresh)
	assert.Equal(t, int64(42), res.User.ID)
	assert.True(t, res.User.IsActive)
}

func TestLogInWithEmailHandlerErrors(t *testing.T) {
	const validBody = `{"email":"test@test.test","password":"secret-password"}`

	cases := []struct {
		id             string
		body           string
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			id:             "invalid credentials",
			body:           validBody,
			serviceErr:     user.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"invalid credentials"}`,
		},
		{
			id:             "inactive user",
			body:           validBody,
			serviceErr:     user.ErrUserIsNotActive,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"error":"user account is disabled"}`,
		},
		{
			id:             "rate limited",
			body:           validBody,
			serviceErr:     ratelimiter.ErrRateLimitExceeded,
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			id:             "unexpected error",
			body:           validBody,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			id:             "invalid email",
			body:           `{"email":"nope","password":"secret-password"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "missing password",
			body:           `{"email":"test@test.test"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, testcase := range cases {
		testcase := testcase
		t.Run(testcase.id, func(t *testing.T) {
			handler := New(&stubService{err: testcase.serviceErr})
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(testcase.body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			if testcase.expectedBody != "" {
				assert.JSONEq(t, testcase.expectedBody, rr.Body.String())
			}
		})
	}
}
