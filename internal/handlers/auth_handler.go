package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/notify"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// forgotPasswordMessage is returned whether or not the account exists.
const forgotPasswordMessage = "If that account exists, you'll receive reset instructions."

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
	issuer       *auth.Issuer
	mailer       notify.Mailer
	clientURL    string
}

// NewAuthHandler creates a new AuthHandler. Reset links point at clientURL.
func NewAuthHandler(userService services.UserServicer, auditService services.AuditServicer, issuer *auth.Issuer, mailer notify.Mailer, clientURL string) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		auditService: auditService,
		issuer:       issuer,
		mailer:       mailer,
		clientURL:    strings.TrimRight(clientURL, "/"),
	}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	FullName        string `json:"fullName" binding:"max=100"`
	Email           string `json:"email" binding:"omitempty,email,max=255"`
	Password        string `json:"password" binding:"max=128"`
	ProfileImageURL string `json:"profileImageUrl" binding:"max=2048"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,max=128"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user and return an access token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} AuthResponse "User registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input or email in use"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.Register(req.FullName, req.Email, req.Password, req.ProfileImageURL)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := h.issuer.Generate(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(user.ID, models.AuditActionRegister, "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and get a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := h.issuer.Generate(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(user.ID, models.AuditActionLogin, "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// Me returns the authenticated user
// @Summary     Get current user
// @Description Get the authenticated user's profile information
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.User "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ForgotPassword emails a password reset link
// @Summary     Request a password reset
// @Description Always answers with the same message so account existence is not revealed
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ForgotPasswordRequest true "Account email"
// @Success     200 {object} MessageResponse "Reset requested"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	log := logger.Named("auth")
	user, token, err := h.userService.CreatePasswordResetToken(req.Email)
	switch {
	case err != nil:
		log.Errorw("Failed to create password reset token", "error", err)
	case user != nil:
		link := h.clientURL + "/reset-password/" + token
		if err := h.mailer.Send(c.Request.Context(), notify.PasswordReset(user.Email, user.FullName, link)); err != nil {
			log.Errorw("Failed to send password reset email", "user_id", user.ID, "error", err)
		}
	}

	c.JSON(http.StatusOK, MessageResponse{Message: forgotPasswordMessage})
}

// ResetPassword sets a new password using a reset token
// @Summary     Reset password
// @Description Set a new password using the token from the reset email
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ResetPasswordRequest true "Reset token and new password"
// @Success     200 {object} MessageResponse "Password updated"
// @Failure     400 {object} ErrorResponse "Invalid or expired token"
// @Router      /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.ResetPassword(req.Token, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, models.AuditActionPasswordReset, "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Password has been reset successfully"})
}

// Activity lists the authenticated user's security and billing events
// @Summary     List account activity
// @Description Paginated audit events (logins, password resets, subscription payments), newest first
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Page size (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Activity page"
// @Failure     400 {object} ErrorResponse "Invalid pagination parameters"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/activity [get]
func (h *AuthHandler) Activity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	page.Defaults()

	entries, total, err := h.auditService.ListActivity(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPageResponse(entries, page.Page, page.PageSize, total))
}
