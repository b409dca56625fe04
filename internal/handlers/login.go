package handlers

import (
	"context"
	"errors"
	"mime"
	"net/http"

	"github.com/sbilibin2017/smart-todo/internal/logger"
	"github.com/sbilibin2017/smart-todo/internal/services"
)

//go:generate mockgen -source=login.go -destination=mock_login_test.go -package=handlers

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Username
	// required: true
	// default: alice
	Username string `json:"username" validate:"required,min=1,max=50"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password" validate:"required,min=1,maxbytes72"`
}

// LoginResponse represents a successful login response
// swagger:model LoginResponse
type LoginResponse struct {
	// JWT access token, valid for 30 minutes
	AccessToken string `json:"access_token"`

	// Always "bearer"
	// default: bearer
	TokenType string `json:"token_type"`
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary Login user
// @Description Authenticates a user and returns a bearer token. Accepts a JSON body or an OAuth2 password form.
// @Tags auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "User login request"
// @Success 200 {object} handlers.LoginResponse "Successful login"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ErrorResponse "Invalid credentials"
// @Failure 422 {object} handlers.ErrorResponse "Validation failed"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeLogin(w, r, &req) {
			return
		}

		token, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeDetail(w, http.StatusInternalServerError, detailInternalError)
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{AccessToken: token, TokenType: "bearer"})
	}
}

// decodeLogin reads the credentials from a JSON body or from an OAuth2 password form.
func decodeLogin(w http.ResponseWriter, r *http.Request, req *LoginRequest) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		return decodeAndValidate(w, r, req)
	}

	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, detailInvalidBody)
		return false
	}
	req.Username = r.PostFormValue("username")
	req.Password = r.PostFormValue("password")
	return validateRequest(w, req)
}
