package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pharmacy/storefront/internal/core/domain"
	"github.com/pharmacy/storefront/internal/core/ports"
)

type UserHandler struct {
	registration ports.RegistrationService
}

func NewUserHandler(registration ports.RegistrationService) *UserHandler {
	return &UserHandler{registration: registration}
}

type registerRequest struct {
	Name     string `json:"name" validate:"max=1024"`
	Email    string `json:"email" validate:"max=1024"`
	Password string `json:"password" validate:"max=1024"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a customer account.
//
// @Summary      Register a customer
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Customer details"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: msgInvalidPayload})
	}

	account, err := h.registration.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		status, msg := registrationFailure(err)
		return c.JSON(status, messageResponse{Message: msg})
	}

	return c.JSON(http.StatusCreated, account)
}

func registrationFailure(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, "Name, email and password are required"
	case errors.Is(err, domain.ErrInvalidEmailFormat):
		return http.StatusBadRequest, "Invalid email format"
	case errors.Is(err, domain.ErrPasswordTooWeak):
		return http.StatusBadRequest, "Password must be at least 6 characters long"
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusBadRequest, "Password must be at most 72 bytes long"
	case errors.Is(err, domain.ErrEmailAlreadyInUse):
		return http.StatusConflict, "Email already in use"
	default:
		return http.StatusInternalServerError, "An error occurred during registration"
	}
}
