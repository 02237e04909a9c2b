package sendpasswordresettoken

import (
	"authstation/internal/core/domain/cache"
	c "authstation/internal/core/domain/common"
	"authstation/internal/core/domain/user"
	service "authstation/internal/core/services/send_password_reset_token"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const TOKEN = "test-reset-token"

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.input = &input
	if s.err != nil {
		return result, s.err
	}
	result.Issued = user.IssuedPasswordResetToken{Token: TOKEN, Email: input.Email}
	return result, nil
}

func TestSendPasswordResetTokenHandler(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		serviceErr     error
		isTestMode     bool
		expectedStatus int
		expectedHeader string
	}{
		{id: "success", body: `{"email":"Test@Test.test"}`, expectedStatus: http.StatusOK},
		{
			id:             "test mode exposes token",
			body:           `{"email":"test@test.test"}`,
			isTestMode:     true,
			expectedStatus: http.StatusOK,
			expectedHeader: TOKEN,
		},
		{
			id:             "unknown email looks like success",
			body:           `{"email":"test@test.test"}`,
			serviceErr:     user.ErrUserDoesNotExist,
			isTestMode:     true,
			expectedStatus: http.StatusOK,
		},
		{
			id:             "not sent",
			body:           `{"email":"test@test.test"}`,
			serviceErr:     user.ErrPasswordResetTokenNotSent,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			id:             "cache unavailable",
			body:           `{"email":"test@test.test"}`,
			serviceErr:     fmt.Errorf("%w: timeout", cache.ErrUnavailable),
			expectedStatus: http.StatusServiceUnavailable,
		},
		{id: "invalid email", body: `{"email":"not-an-email"}`, expectedStatus: http.StatusBadRequest},
	}

	for _, testcase := range cases {
		testcase := testcase
		t.Run(testcase.id, func(t *testing.T) {
			s := &stubService{err: testcase.serviceErr}
			handler := New(s, testcase.isTestMode)
			req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password", strings.NewReader(testcase.body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			assert.Equal(t, testcase.expectedHeader, rr.Header().Get(TEST_TOKEN_HEADER))
		})
	}
}

func TestEmailIsNormalized(t *testing.T) {
	s := &stubService{}
	req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password", strings.NewReader(`{"email":"Test@Test.test"}`))

	New(s, false).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, c.Email("test@test.test"), s.input.Email)
}
