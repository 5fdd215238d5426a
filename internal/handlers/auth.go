package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"marketplace-service/internal/auth"
	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
	"marketplace-service/internal/telemetry"
)

// TokenIssuer issues bearer tokens for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// LoginRecorder stores the time of a user's latest successful login.
type LoginRecorder interface {
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	users  repositories.UserRepository
	logins LoginRecorder
	tokens TokenIssuer
	audit  *telemetry.AuditEmitter
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewAuthHandler reads credentials from users and records logins through
// logins, which keeps cached profiles fresh.
func NewAuthHandler(users repositories.UserRepository, logins LoginRecorder, tokens TokenIssuer, audit *telemetry.AuditEmitter, logger logrus.FieldLogger) *AuthHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthHandler{users: users, logins: logins, tokens: tokens, audit: audit, log: logger, now: time.Now}
}

type registerRequest struct {
	Name        string             `json:"name" binding:"required"`
	Email       string             `json:"email" binding:"required,email"`
	Phone       string             `json:"phone" binding:"required"`
	Password    string             `json:"password" binding:"required"`
	UserType    models.UserType    `json:"user_type"`
	City        string             `json:"city" binding:"required"`
	Address     *string            `json:"address"`
	ShopName    *string            `json:"shop_name"`
	LoginMethod models.LoginMethod `json:"login_method"`
}

type loginRequest struct {
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	Password    string             `json:"password" binding:"required"`
	LoginMethod models.LoginMethod `json:"login_method"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	ctx := c.Request.Context()

	if _, err := h.users.GetUserByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		internalError(c, "failed to register user", err)
		return
	}
	if _, err := h.users.GetUserByPhone(ctx, req.Phone); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number already registered"})
		return
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		internalError(c, "failed to register user", err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		internalError(c, "failed to register user", err)
		return
	}

	if req.UserType == "" {
		req.UserType = models.UserTypeIndividual
	}
	if req.LoginMethod == "" {
		req.LoginMethod = models.LoginMethodEmail
	}
	user := models.User{
		ID:                 uuid.NewString(),
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		PasswordHash:       hash,
		UserType:           req.UserType,
		LoginMethod:        req.LoginMethod,
		City:               req.City,
		Address:            req.Address,
		ShopName:           req.ShopName,
		IsActive:           true,
		JoinedDate:         h.now().UTC(),
		VerificationBadges: pq.StringArray{},
	}
	if err := h.users.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		case errors.Is(err, repositories.ErrPhoneTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number already registered"})
		default:
			internalError(c, "failed to register user", err)
		}
		return
	}

	h.respondWithToken(c, user, telemetry.ActionRegister)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if req.LoginMethod == "" {
		req.LoginMethod = models.LoginMethodEmail
	}
	ctx := c.Request.Context()

	var (
		user models.User
		err  error
	)
	switch {
	case req.LoginMethod == models.LoginMethodEmail && req.Email != "":
		user, err = h.users.GetUserByEmail(ctx, req.Email)
	case req.LoginMethod == models.LoginMethodPhone && req.Phone != "":
		user, err = h.users.GetUserByPhone(ctx, req.Phone)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login method or missing credentials"})
		return
	}
	if errors.Is(err, repositories.ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		internalError(c, "Internal server error during login", err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		emitAudit(c, h.audit, telemetry.LevelWarn, telemetry.ActionLoginFailed, user.ID, &user.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password"})
		return
	}

	now := h.now().UTC()
	if err := h.logins.TouchLastLogin(ctx, user.ID, now); err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Warn("failed to record last login")
	} else {
		user.LastLogin = &now
	}

	h.respondWithToken(c, user, telemetry.ActionLogin)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, user models.User, action string) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		internalError(c, "failed to issue token", err)
		return
	}
	emitAudit(c, h.audit, telemetry.LevelInfo, action, user.ID, &user.ID)
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", User: user})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}
