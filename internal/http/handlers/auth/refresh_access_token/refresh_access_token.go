package refreshaccesstoken

import (
	e "authstation/internal/core/domain/errors"
	"authstation/internal/core/domain/user"
	"authstation/internal/core/services"
	refreshaccesstoken "authstation/internal/core/services/refresh_access_token"
	"authstation/internal/http/handlers/response"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[refreshaccesstoken.Input, refreshaccesstoken.Result]
}

func New(
	service services.Service[refreshaccesstoken.Input, refreshaccesstoken.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Refresh string `json:"refresh"`
}

type Result struct {
	Access string `json:"access"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Refresh, validation.Required, validation.Length(0, 256)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(r.Context(), refreshaccesstoken.Input{Refresh: user.RefreshToken(input.Refresh)})
	switch {
	case err == nil:
		response.Render(rw, Result{Access: string(result.Access)}, http.StatusOK)
	case errors.Is(err, user.ErrSessionDoesNotExist), errors.Is(err, user.ErrSessionExpired):
		response.RenderError(rw, "invalid token", http.StatusUnauthorized)
	case errors.Is(err, user.ErrUserIsNotActive):
		response.RenderError(rw, "user account is disabled", http.StatusUnprocessableEntity)
	default:
		response.RenderUnexpectedError(rw, err)
	}
}
