package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Kasperversteeg/kade-shifts/config"
	"github.com/Kasperversteeg/kade-shifts/internal/dto"
	"github.com/Kasperversteeg/kade-shifts/internal/model"
	"github.com/Kasperversteeg/kade-shifts/internal/repository"
	"github.com/Kasperversteeg/kade-shifts/pkg/jwt"
	"github.com/Kasperversteeg/kade-shifts/pkg/mailer"
)

var (
	ErrEmailTaken            = errors.New("email already in use or invited")
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationExpired     = errors.New("invitation expired")
	ErrInvitationAccepted    = errors.New("invitation already accepted")
)

// InvitationService runs the invitation-gated registration flow:
// admins invite an address, the invitee accepts the tokenized link and
// gets an account plus a login session.
type InvitationService interface {
	Create(ctx context.Context, adminID string, req *dto.CreateInvitationRequest) (*dto.InvitationResponse, error)
	List(ctx context.Context) ([]dto.InvitationResponse, error)
	Validate(ctx context.Context, token string) (*dto.InvitationValidityResponse, error)
	Accept(ctx context.Context, token string, req *dto.AcceptInvitationRequest) (*dto.TokenResponse, error)
}

type invitationService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	mail   mailer.Mailer
	logger *zap.Logger
}

// NewInvitationService creates the InvitationService.
func NewInvitationService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	mail mailer.Mailer,
	logger *zap.Logger,
) InvitationService {
	return &invitationService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		mail:   mail,
		logger: logger,
	}
}

func (s *invitationService) Create(ctx context.Context, adminID string, req *dto.CreateInvitationRequest) (*dto.InvitationResponse, error) {
	// The address must be free both as an account and as a pending
	// invitation.
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Invitation.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup invitation failed", zap.Error(err))
		return nil, err
	}

	token, err := generateInviteToken()
	if err != nil {
		return nil, err
	}

	invitation := &model.Invitation{
		Email:     req.Email,
		Token:     token,
		InvitedBy: adminID,
		ExpiresAt: time.Now().Add(s.cfg.Auth.InvitationTTL),
	}

	if err := s.repo.Invitation.Create(ctx, invitation); err != nil {
		s.logger.Error("create invitation failed", zap.Error(err))
		return nil, err
	}

	inviteURL := fmt.Sprintf("%s/invitation/%s", s.cfg.Server.AppURL, invitation.Token)
	if err := s.mail.SendInvitation(invitation.Email, inviteURL, invitation.ExpiresAt); err != nil {
		return nil, err
	}

	resp := invitationResponse(invitation)
	return &resp, nil
}

func (s *invitationService) List(ctx context.Context) ([]dto.InvitationResponse, error) {
	invitations, err := s.repo.Invitation.List(ctx)
	if err != nil {
		s.logger.Error("list invitations failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.InvitationResponse, 0, len(invitations))
	for i := range invitations {
		result = append(result, invitationResponse(&invitations[i]))
	}

	return result, nil
}

func (s *invitationService) Validate(ctx context.Context, token string) (*dto.InvitationValidityResponse, error) {
	invitation, err := s.repo.Invitation.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		s.logger.Error("lookup invitation failed", zap.Error(err))
		return nil, err
	}

	switch {
	case invitation.IsAccepted():
		return &dto.InvitationValidityResponse{Valid: false, Reason: "accepted"}, nil
	case invitation.IsExpired():
		return &dto.InvitationValidityResponse{Valid: false, Reason: "expired"}, nil
	default:
		return &dto.InvitationValidityResponse{
			Valid:     true,
			Email:     invitation.Email,
			ExpiresAt: invitation.ExpiresAt.Format(time.RFC3339),
		}, nil
	}
}

func (s *invitationService) Accept(ctx context.Context, token string, req *dto.AcceptInvitationRequest) (*dto.TokenResponse, error) {
	invitation, err := s.repo.Invitation.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		s.logger.Error("lookup invitation failed", zap.Error(err))
		return nil, err
	}

	if invitation.IsAccepted() {
		return nil, ErrInvitationAccepted
	}
	if invitation.IsExpired() {
		return nil, ErrInvitationExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        invitation.Email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Language:     model.LanguageEnglish,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	invitation.AcceptedAt = &now
	if err := s.repo.Invitation.Update(ctx, invitation); err != nil {
		s.logger.Error("mark invitation accepted failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("invitation accepted",
		zap.String("email", invitation.Email),
		zap.String("user_id", user.UserID),
	)

	// Registration doubles as first login.
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, false)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         userResponse(user),
	}, nil
}

// generateInviteToken returns a 64-character random hex token.
func generateInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invitation token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// invitationResponse maps an invitation row to its admin-list view.
func invitationResponse(invitation *model.Invitation) dto.InvitationResponse {
	resp := dto.InvitationResponse{
		ID:        invitation.InvitationID,
		Email:     invitation.Email,
		ExpiresAt: invitation.ExpiresAt.Format(time.RFC3339),
		CreatedAt: invitation.CreatedAt.Format(time.RFC3339),
	}
	if invitation.Inviter != nil {
		resp.InviterName = invitation.Inviter.Name
	}
	if invitation.AcceptedAt != nil {
		accepted := invitation.AcceptedAt.Format(time.RFC3339)
		resp.AcceptedAt = &accepted
	}
	return resp
}
