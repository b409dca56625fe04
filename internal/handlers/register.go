package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/smart-todo/internal/logger"
	"github.com/sbilibin2017/smart-todo/internal/services"
)

//go:generate mockgen -source=register.go -destination=mock_register_test.go -package=handlers

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, username, password string) error
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// default: alice
	Username string `json:"username" validate:"required,min=1,max=50,nonul"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password" validate:"required,min=1,maxbytes72"`
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account. The password is hashed before storing. Does not log the user in.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 200 {object} handlers.MessageResponse "User registered successfully"
// @Failure 400 {object} handlers.ErrorResponse "User already exists / invalid request body"
// @Failure 422 {object} handlers.ErrorResponse "Validation failed"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if err := svc.Register(r.Context(), req.Username, req.Password); err != nil {
			if errors.Is(err, services.ErrUserAlreadyExists) {
				writeDetail(w, http.StatusBadRequest, "User already exists")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeDetail(w, http.StatusInternalServerError, detailInternalError)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "User registered successfully"})
	}
}
