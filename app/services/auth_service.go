package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/app/repositories"
	"github.com/PascalSeth/trendiwear/config"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/cache"
	"github.com/PascalSeth/trendiwear/pkg/logger"
)

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

type RegisterInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=120"`
	Email    string `json:"email"    validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"nullable,in=CUSTOMER,PROFESSIONAL"`
	Phone    string `json:"phone"    validate:"nullable,phone"`
}

type AuthResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	role := in.Role
	if role == "" {
		role = auth.RoleCustomer
	}
	if role != auth.RoleCustomer && role != auth.RoleProfessional {
		return nil, apperr.BadRequest("Role must be CUSTOMER or PROFESSIONAL")
	}

	taken, err := s.users.EmailTaken(ctx, in.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Conflict("Email already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: hash,
		Role:     role,
		Phone:    in.Phone,
		IsActive: true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, apperr.FromDB(err, "")
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil || !auth.CheckPassword(user.Password, password) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("Account is disabled")
	}
	return s.issue(user)
}

// Refresh re-reads the user so a changed role or disabled account is
// reflected in the new token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := auth.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("Account is disabled")
	}
	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.FromDB(err, "User not found")
	}
	return &user, nil
}

type accountState struct {
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

func principalKey(userID uint) string {
	return "auth:principal:" + strconv.FormatUint(uint64(userID), 10)
}

// Principal is the request-time view of a token's user, cached for
// AUTH_CACHE_SECONDS (default 30s). Writes to role or status call
// forgetPrincipal so they apply on the next request.
func (s *AuthService) Principal(ctx context.Context, userID uint) (auth.Principal, error) {
	ttl := time.Duration(config.Int("AUTH_CACHE_SECONDS", 30)) * time.Second
	st, err := cache.Remember(principalKey(userID), ttl, func() (accountState, error) {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return accountState{}, err
		}
		return accountState{Role: user.Role, Active: user.IsActive}, nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return auth.Principal{}, auth.ErrAccountNotFound
	}
	if err != nil {
		return auth.Principal{}, err
	}
	if !st.Active {
		return auth.Principal{}, auth.ErrAccountDisabled
	}
	return auth.Principal{UserID: userID, Role: st.Role}, nil
}

func forgetPrincipal(ctx context.Context, userID uint) {
	if err := forgetCache(principalKey(userID)); err != nil {
		logger.WithCtx(ctx).Warn("principal cache forget failed", "user_id", userID, "error", err)
	}
}

func (s *AuthService) issue(user models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthResult{Token: token, RefreshToken: refresh, User: user}, nil
}
