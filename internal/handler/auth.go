package handler

import (
	"errors"
	"net/http"

	"paulinepos/internal/apierror"
	"paulinepos/internal/dto"
	"paulinepos/internal/middleware"
	"paulinepos/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Register godoc
// @Summary Création de compte
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Compte"
// @Success 201 {object} dto.LoginResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		authError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Connexion
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Identifiants"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		authError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.svc.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.svc.Me(c.Request.Context(), middleware.GetClaims(c).UID())
	if err != nil {
		authError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateProfile(c.Request.Context(), middleware.GetClaims(c).UID(), req)
	if err != nil {
		authError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), middleware.GetClaims(c).UID(), req); err != nil {
		authError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func authError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, apierror.WithCode("email_taken", err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apierror.WithCode("invalid_credentials", err.Error()))
	case errors.Is(err, service.ErrWrongPassword):
		c.JSON(http.StatusUnprocessableEntity, apierror.WithCode("wrong_password", err.Error()))
	case errors.Is(err, service.ErrUserNotFound):
		// the token outlived its account
		c.JSON(http.StatusUnauthorized, apierror.WithCode("user_not_found", err.Error()))
	default:
		_ = c.Error(err)
	}
}
