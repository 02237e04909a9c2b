package resetpassword

import (
	"authstation/internal/core/domain/cache"
	ratelimiter "authstation/internal/core/domain/rate_limiter"
	"authstation/internal/core/domain/user"
	service "authstation/internal/core/services/reset_password"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.input = &input
	return result, s.err
}

func TestResetPasswordHandler(t *testing.T) {
	const validBody = `{"token":"abc","new_password":"new-password","confirm_password":"new-password"}`

	cases := []struct {
		id             string
		body           string
		serviceErr     error
		expectedStatus int
		expectedBody   string
		expectedCalled bool
	}{
		{
			id:             "success",
			body:           validBody,
			expectedStatus: http.StatusOK,
			expectedBody:   `{}`,
			expectedCalled: true,
		},
		{
			id:             "invalid token",
			body:           validBody,
			serviceErr:     user.ErrInvalidPasswordResetToken,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"error":"invalid or expired token"}`,
			expectedCalled: true,
		},
		{
			id:             "cache unavailable",
			body:           validBody,
			serviceErr:     fmt.Errorf("%w: connection refused", cache.ErrUnavailable),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"error":"service temporarily unavailable"}`,
			expectedCalled: true,
		},
		{
			id:             "rate limited",
			body:           validBody,
			serviceErr:     ratelimiter.ErrRateLimitExceeded,
			expectedStatus: http.StatusTooManyRequests,
			expectedCalled: true,
		},
		{
			id:             "unexpected error",
			body:           validBody,
			serviceErr:     fmt.Errorf("%w: read failed", user.ErrEntropySourceFailure),
			expectedStatus: http.StatusInternalServerError,
			expectedCalled: true,
		},
		{
			id:             "passwords do not match",
			body:           `{"token":"abc","new_password":"new-password","confirm_password":"other-password"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "password too short",
			body:           `{"token":"abc","new_password":"short","confirm_password":"short"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "missing token",
			body:           `{"new_password":"new-password","confirm_password":"new-password"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "invalid json",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request data"}`,
		},
	}

	for _, testcase := range cases {
		testcase := testcase
		t.Run(testcase.id, func(t *testing.T) {
			s := &stubService{err: testcase.serviceErr}
			handler := New(s)
			req := httptest.NewRequest(http.MethodPost, "/auth/reset-password", strings.NewReader(testcase.body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			if testcase.expectedBody != "" {
				assert.JSONEq(t, testcase.expectedBody, rr.Body.String())
			}
			assert.Equal(t, testcase.expectedCalled, s.input != nil)
			if s.input != nil {
				assert.Equal(t, user.PasswordResetToken("abc"), s.input.Token)
				assert.Equal(t, user.RawPassword("new-password"), s.input.NewPassword)
			}
		})
	}
}
