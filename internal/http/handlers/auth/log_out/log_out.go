package logout

import (
	e "authstation/internal/core/domain/errors"
	"authstation/internal/core/domain/user"
	"authstation/internal/core/services"
	logout "authstation/internal/core/services/log_out"
	"authstation/internal/http/handlers/response"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[logout.Input, logout.Result]
}

func New(
	service services.Service[logout.Input, logout.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Refresh string `json:"refresh"`
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

	_, err := h.service.Run(r.Context(), logout.Input{Refresh: user.RefreshToken(input.Refresh)})
	switch {
	case err == nil:
		response.Render(rw, struct{}{}, http.StatusOK)
	case errors.Is(err, user.ErrInvalidAccessToken), errors.Is(err, user.ErrUserIsNotActive):
		response.RenderUnauthorized(rw)
	case errors.Is(err, user.ErrSessionDoesNotExist):
		response.RenderError(rw, "invalid token", http.StatusBadRequest)
	default:
		response.RenderUnexpectedError(rw, err)
	}
}
