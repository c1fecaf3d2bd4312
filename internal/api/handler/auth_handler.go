package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pharmacy/storefront/internal/core/domain"
	"github.com/pharmacy/storefront/internal/core/ports"
)

const (
	msgLoginSuccessful    = "Login successful"
	msgCredentialsMissing = "Email and password required"
	msgLoginRejected      = "Invalid email or password"
	msgLoginFailed        = "An error occurred during login"
	msgInvalidPayload     = "Invalid request payload"
)

type AuthHandler struct {
	auth                ports.AuthService
	exposeAdminIdentity bool
	log                 zerolog.Logger
}

// NewAuthHandler builds the login handler. When exposeAdminIdentity is false,
// admin logins report only the role, matching what storefront clients expect.
func NewAuthHandler(auth ports.AuthService, exposeAdminIdentity bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, exposeAdminIdentity: exposeAdminIdentity, log: log}
}

type loginRequest struct {
	Email    string `json:"email" validate:"max=1024"`
	Password string `json:"password" validate:"max=1024"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Role    string `json:"role,omitempty"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Login authenticates an administrator or customer.
//
// @Summary      Login
// @Description  Checks administrators first, then customers. Stored credentials may be plaintext or hashed.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest   true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  loginResponse
// @Failure      401   {object}  loginResponse
// @Failure      500   {object}  loginResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, loginResponse{Message: msgInvalidPayload})
	}

	id, err := h.auth.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingCredentials):
			return c.JSON(http.StatusBadRequest, loginResponse{Message: msgCredentialsMissing})
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, loginResponse{Message: msgLoginRejected})
		default:
			h.log.Error().Err(err).Msg("login failed")
			return c.JSON(http.StatusInternalServerError, loginResponse{Message: msgLoginFailed})
		}
	}

	resp := loginResponse{
		Success: true,
		Role:    string(id.Role),
		Message: msgLoginSuccessful,
	}
	if id.Role != domain.RoleAdmin || h.exposeAdminIdentity {
		resp.ID = id.PrincipalID
		resp.Name = id.Name
		resp.Email = id.Email
	}
	return c.JSON(http.StatusOK, resp)
}
