package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Kasperversteeg/kade-shifts/internal/dto"
	"github.com/Kasperversteeg/kade-shifts/internal/model"
)

func TestInvitationService_Create_Success(t *testing.T) {
	repo, _, _, _ := testRepo()
	mail := &mockMailer{}
	svc := NewInvitationService(testConfig(), repo, testJWTManager(), mail, nopLogger())

	result, err := svc.Create(context.Background(), "admin-1", &dto.CreateInvitationRequest{
		Email: "nieuw@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Email != "nieuw@example.com" {
		t.Errorf("unexpected email: %s", result.Email)
	}

	if len(mail.invitations) != 1 {
		t.Fatalf("expected one invitation mail, got %d", len(mail.invitations))
	}
	sent := mail.invitations[0]
	if sent.to != "nieuw@example.com" {
		t.Errorf("mail sent to %s", sent.to)
	}
	if !strings.HasPrefix(sent.inviteURL, "https://shifts.example.com/invitation/") {
		t.Errorf("unexpected invite URL: %s", sent.inviteURL)
	}

	// Expires roughly 7 days out.
	week := time.Until(sent.expiresAt)
	if week < 167*time.Hour || week > 169*time.Hour {
		t.Errorf("expected a 7-day expiry, got %s", week)
	}
}

func TestInvitationService_Create_EmailHasAccount(t *testing.T) {
	repo, users, _, _ := testRepo()
	seedUser(t, users, "jan@example.com", "Secret123", model.RoleUser)
	svc := NewInvitationService(testConfig(), repo, testJWTManager(), &mockMailer{}, nopLogger())

	_, err := svc.Create(context.Background(), "admin-1", &dto.CreateInvitationRequest{
		Email: "jan@example.com",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestInvitationService_Create_EmailAlreadyInvited(t *testing.T) {
	repo, _, _, _ := testRepo()
	svc := NewInvitationService(testConfig(), repo, testJWTManager(), &mockMailer{}, nopLogger())

	if _, err := svc.Create(context.Background(), "admin-1", &dto.CreateInvitationRequest{
		Email: "nieuw@example.com",
	}); err != nil {
		t.Fatalf("seed invitation: %v", err)
	}

	_, err := svc.Create(context.Background(), "admin-1", &dto.CreateInvitationRequest{
		Email: "nieuw@example.com",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestInvitationService_Create_MailFailure(t *testing.T) {
	repo, _, _, _ := testRepo()
	svc := NewInvitationService(testConfig(), repo, testJWTManager(), &mockMailer{err: errBoom}, nopLogger())

	_, err := svc.Create(context.Background(), "admin-1", &dto.CreateInvitationRequest{
		Email: "nieuw@example.com",
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("expected the mail error to surface, got %v", err)
	}
}

func TestInvitationService_Validate(t *testing.T) {
	repo, _, _, invitations := testRepo()
	svc := NewInvitationService(testConfig(), repo, testJWTManager(), &mockMailer{}, nopLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, "admin-1", &dto.CreateInvitationRequest{Email: "nieuw@example.com"})
	if err != nil {
		t.Fatalf("seed invitation: %v", err)
	}

	stored := invitations.invitations[created.ID]
	if stored == nil {
		t.Fatal("invitation not stored")
	}

	result, err := svc.Validate(ctx, stored.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected a fresh invitation to be valid, reason=%s", result.Reason)
	}
	if result.Email != "nieuw@example.com" {
		t.Errorf("unexpected email: %s", result.Email)
	}

	// Expired.
	stored.ExpiresAt = time.Now().Add(-time.Hour)
	result, err = svc.Validate(ctx, stored.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Valid || result.Reason != "expired" {
		t.Errorf("expected invalid/expired, got valid=%t reason=%s", result.Valid, result.Reason)
	}

	// Accepted wins over expired.
	now := time.Now()
	stored.AcceptedAt = &now
	result, err = svc.Validate(ctx, stored.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Valid || result.Reason != "accepted" {
		t.Errorf("expected invalid/accepted, got valid=%t reason=%s", result.Valid, result.Reason)
	}
}

func TestInvitationService_Validate_NotFound(t *testing.T) {
	repo, _, _, _ := testRepo()
	svc := NewInvitationService(testConfig(), repo, testJWTManager(), &mockMailer{}, nopLogger())

	_, err := svc.Validate(context.Background(), "unknown-token")
	if !errors.Is(err, ErrInvitationNotFound) {
		t.Errorf("expected ErrInvitationNotFound, got %v", err)
	}
}

func TestInvitationService_Accept_Success(t *testing.T) {
	repo, users, _, invitations := testRepo()
	svc := NewInvitationService(testConfig(), repo, testJWTManager(), &mockMailer{}, nopLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, "admin-1", &dto.CreateInvitationRequest{Email: "nieuw@example.com"})
	if err != nil {
		t.Fatalf("seed invitation: %v", err)
	}
	token := invitations.invitations[created.ID].Token

	result, err := svc.Accept(ctx, token, &dto.AcceptInvitationRequest{
		Name:     "Nieuwe Collega",
		Password: "Secret123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("expected acceptance to log the user in")
	}
	if result.User.Role != model.RoleUser {
		t.Errorf("expected role user, got %s", result.User.Role)
	}
	if result.User.Email != "nieuw@example.com" {
		t.Errorf("expected the invited email, got %s", result.User.Email)
	}

	user, err := users.GetByEmail(ctx, "nieuw@example.com")
	if err != nil {
		t.Fatalf("expected the account to exist: %v", err)
	}
	if user.PasswordHash == "Secret123" {
		t.Error("password must be stored hashed")
	}

	if invitations.invitations[created.ID].AcceptedAt == nil {
		t.Error("expected the invitation to be marked accepted")
	}
}

func TestInvitationService_Accept_Twice(t *testing.T) {
	repo, _, _, invitations := testRepo()
	svc := NewInvitationService(testConfig(), repo, testJWTManager(), &mockMailer{}, nopLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, "admin-1", &dto.CreateInvitationRequest{Email: "nieuw@example.com"})
	if err != nil {
		t.Fatalf("seed invitation: %v", err)
	}
	token := invitations.invitations[created.ID].Token

	req := &dto.AcceptInvitationRequest{Name: "Nieuwe Collega", Password: "Secret123"}
	if _, err := svc.Accept(ctx, token, req); err != nil {
		t.Fatalf("first accept: %v", err)
	}

	_, err = svc.Accept(ctx, token, req)
	if !errors.Is(err, ErrInvitationAccepted) {
		t.Errorf("expected ErrInvitationAccepted, got %v", err)
	}
}

func TestInvitationService_Accept_Expired(t *testing.T) {
	repo, _, _, invitations := testRepo()
	svc := NewInvitationService(testConfig(), repo, testJWTManager(), &mockMailer{}, nopLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, "admin-1", &dto.CreateInvitationRequest{Email: "nieuw@example.com"})
	if err != nil {
		t.Fatalf("seed invitation: %v", err)
	}
	stored := invitations.invitations[created.ID]
	stored.ExpiresAt = time.Now().Add(-time.Hour)

	_, err = svc.Accept(ctx, stored.Token, &dto.AcceptInvitationRequest{
		Name:     "Te Laat",
		Password: "Secret123",
	})
	if !errors.Is(err, ErrInvitationExpired) {
		t.Errorf("expected ErrInvitationExpired, got %v", err)
	}
}

func TestInvitationService_List(t *testing.T) {
	repo, _, _, _ := testRepo()
	svc := NewInvitationService(testConfig(), repo, testJWTManager(), &mockMailer{}, nopLogger())
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := svc.Create(ctx, "admin-1", &dto.CreateInvitationRequest{Email: email}); err != nil {
			t.Fatalf("seed invitation: %v", err)
		}
	}

	result, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("expected 2 invitations, got %d", len(result))
	}
}
