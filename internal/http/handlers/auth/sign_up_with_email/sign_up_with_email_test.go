package signupwithemail

import (
	c "authstation/internal/core/domain/common"
	"authstation/internal/core/domain/user"
	service "authstation/internal/core/services/sign_up_with_email"
	"context"
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

func (s *stubService) Run(ctx context.Context, input service.Input) (service.Result, error) {
	s.input = &input
	return service.Result{User: user.User{ID: 1, Email: input.Email, FullName: input.FullName}}, s.err
}

func TestSignUpWithEmailHandler(t *testing.T) {
	const validBody = `{"email":"test@test.test","full_name":"Jane Doe","password":"password1","password_confirm":"password1"}`

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
			expectedStatus: http.StatusCreated,
			expectedCalled: true,
		},
		{
			id:             "email already exists",
			body:           validBody,
			serviceErr:     user.ErrEmailAlreadyExists,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"error":"email already exists"}`,
			expectedCalled: true,
		},
		{
			id:             "passwords do not match",
			body:           `{"email":"test@test.test","password":"password1","password_confirm":"password2"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "password too short",
			body:           `{"email":"test@test.test","password":"short","password_confirm":"short"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "invalid json",
			body:           `[]`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request data"}`,
		},
	}

	for _, testcase := range cases {
		testcase := testcase
		t.Run(testcase.id, func(t *testing.T) {
			s := &stubService{err: testcase.serviceErr}
			handler := New(s)
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(testcase.body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			if testcase.expectedBody != "" {
				assert.JSONEq(t, testcase.expectedBody, rr.Body.String())
			}
			assert.Equal(t, testcase.expectedCalled, s.input != nil)
			if s.input != nil {
				assert.Equal(t, c.NewEmail("test@test.test"), s.input.Email)
				assert.Equal(t, "Jane Doe", s.input.FullName)
			}
		})
	}
}
