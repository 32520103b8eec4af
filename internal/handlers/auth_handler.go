package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medresearch/internal/models"
	"medresearch/internal/services"
)

type AuthHandler struct {
	loginService        services.LoginService
	registrationService services.RegistrationService
}

func NewAuthHandler(loginService services.LoginService, registrationService services.RegistrationService) *AuthHandler {
	return &AuthHandler{loginService: loginService, registrationService: registrationService}
}

// @Summary      Log in
// @Description  Authenticates a user with password and TOTP two-factor code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][login] bad request: bind json failed: err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	email := strings.TrimSpace(req.Email)
	log.Printf("[auth][login] attempt email=%q", email)

	result, err := h.loginService.Login(email, req.Password, strings.TrimSpace(req.TOTPCode))
	if err != nil {
		var locked *services.AccountLockedError
		switch {
		case errors.As(err, &locked):
			c.JSON(http.StatusForbidden, gin.H{"detail": locked.Error()})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		case errors.Is(err, services.ErrInvalidTOTPCode):
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid TOTP code"})
		case errors.Is(err, services.ErrTOTPCodeRequired):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "TOTP code required"})
		default:
			// only storage trouble lands here
			log.Printf("[auth][login] internal error email=%q: err=%v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		}
		return
	}

	if result.SetupRequired {
		c.JSON(http.StatusOK, gin.H{
			"totp_setup":  true,
			"qr_code_url": result.ProvisioningURI,
			"detail":      "Scan the QR code with your authenticator app, then log in again with a TOTP code.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": result.AccessToken,
		"token_type":   "bearer",
	})
}

// @Summary      Register
// @Description  Submits a registration request for admin approval
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        registration  body      models.RegistrationRequest  true  "Registration data"
// @Success      201  {object}  models.PendingRegistration
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	pending, err := h.registrationService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailAlreadyRegistered),
			errors.Is(err, services.ErrRegistrationAlreadyOpen):
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		default:
			log.Printf("[auth][register] internal error email=%q: err=%v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, pending)
}
