package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/Kasperversteeg/kade-shifts/config"
	"github.com/Kasperversteeg/kade-shifts/internal/dto"
	"github.com/Kasperversteeg/kade-shifts/internal/model"
	"github.com/Kasperversteeg/kade-shifts/internal/repository"
	"github.com/Kasperversteeg/kade-shifts/pkg/jwt"
	"github.com/Kasperversteeg/kade-shifts/pkg/redis"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrSSODisabled         = errors.New("google sign-in is not configured")
	ErrSSOStateMismatch    = errors.New("oauth state mismatch")
	// ErrSSOUnknownAccount: Google sign-in never creates accounts; the
	// address must have been invited first.
	ErrSSOUnknownAccount = errors.New("no account for this google identity")
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthService handles login, the token pair lifecycle and Google SSO.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessJTI string, accessExpiry time.Time, refreshToken string) error
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	GoogleAuthURL(ctx context.Context) (*dto.GoogleAuthURLResponse, error)
	GoogleCallback(ctx context.Context, code, state string) (*dto.TokenResponse, error)
}

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	jwtMgr   *jwt.Manager
	rdb      *redis.Client
	oauthCfg *oauth2.Config
	logger   *zap.Logger
}

// NewAuthService creates the AuthService.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	var oauthCfg *oauth2.Config
	if cfg.Google.ClientID != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return &authService{
		cfg:      cfg,
		repo:     repo,
		jwtMgr:   jwtMgr,
		rdb:      rdb,
		oauthCfg: oauthCfg,
		logger:   logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokenPair(user, req.RememberMe)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	if s.rdb != nil {
		revoked, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("blacklist check failed", zap.Error(err))
		} else if revoked {
			return nil, ErrInvalidRefreshToken
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}

	// Rotate: the old refresh token is revoked for its remaining life.
	if s.rdb != nil {
		if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("revoke rotated refresh token failed", zap.Error(err))
		}
	}

	return s.issueTokenPair(user, claims.RememberMe)
}

func (s *authService) Logout(ctx context.Context, accessJTI string, accessExpiry time.Time, refreshToken string) error {
	if s.rdb == nil {
		return nil // degraded: tokens expire on their own
	}

	if err := s.rdb.BlacklistToken(ctx, accessJTI, time.Until(accessExpiry)); err != nil {
		s.logger.Warn("blacklist access token failed", zap.Error(err))
	}

	if refreshToken != "" {
		if claims, err := s.jwtMgr.ParseToken(refreshToken); err == nil && claims.TokenType == jwt.TypeRefresh {
			if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
				s.logger.Warn("blacklist refresh token failed", zap.Error(err))
			}
		}
	}

	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update password failed", zap.Error(err))
		return err
	}

	return nil
}

// ── Google SSO ──

func (s *authService) GoogleAuthURL(ctx context.Context) (*dto.GoogleAuthURLResponse, error) {
	if s.oauthCfg == nil {
		return nil, ErrSSODisabled
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate oauth state: %w", err)
	}
	state := hex.EncodeToString(buf)

	if s.rdb != nil {
		if err := s.rdb.StoreOAuthState(ctx, state, 10*time.Minute); err != nil {
			s.logger.Warn("store oauth state failed", zap.Error(err))
		}
	}

	return &dto.GoogleAuthURLResponse{
		URL: s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline),
	}, nil
}

func (s *authService) GoogleCallback(ctx context.Context, code, state string) (*dto.TokenResponse, error) {
	if s.oauthCfg == nil {
		return nil, ErrSSODisabled
	}

	// State can only be verified against Redis; without it the check
	// is skipped, same degradation as token revocation.
	if s.rdb != nil {
		ok, err := s.rdb.ConsumeOAuthState(ctx, state)
		if err != nil {
			s.logger.Warn("consume oauth state failed", zap.Error(err))
		} else if !ok {
			return nil, ErrSSOStateMismatch
		}
	}

	token, err := s.oauthCfg.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("google code exchange failed", zap.Error(err))
		return nil, ErrSSOUnknownAccount
	}

	info, err := s.fetchGoogleUserinfo(ctx, token)
	if err != nil {
		s.logger.Error("fetch google userinfo failed", zap.Error(err))
		return nil, err
	}

	// Existing accounts only: match by linked Google ID first, then by
	// invited email address.
	user, err := s.repo.User.GetByGoogleID(ctx, info.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.repo.User.GetByEmail(ctx, info.Email)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSSOUnknownAccount
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}

	if user.GoogleID == nil {
		googleID := info.ID
		user.GoogleID = &googleID
		if err := s.repo.User.Update(ctx, user); err != nil {
			s.logger.Error("link google id failed", zap.Error(err))
			return nil, err
		}
	}

	return s.issueTokenPair(user, true)
}

type googleUserinfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *authService) fetchGoogleUserinfo(ctx context.Context, token *oauth2.Token) (*googleUserinfo, error) {
	resp, err := s.oauthCfg.Client(ctx, token).Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("userinfo missing id or email")
	}

	return &info, nil
}

// issueTokenPair signs an access/refresh pair for the user.
func (s *authService) issueTokenPair(user *model.User, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, rememberMe)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         userResponse(user),
	}, nil
}
