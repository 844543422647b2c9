package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"natours/internal/auth"
	apperrors "natours/internal/errors"
	"natours/internal/model"
	"natours/internal/repository"
)

const minPasswordLength = 8

var (
	// ErrIncorrectCredentials is shared by unknown email and wrong password.
	ErrIncorrectCredentials = apperrors.Unauthorized("Incorrect email or password.")
	ErrMissingCredentials   = apperrors.Validation("Please provide the email and password.")
	ErrMailNotVerified      = apperrors.Unauthorized("Your email is not verified! Verify using the link sent to your email")
	ErrUserGone             = apperrors.Unauthorized("The user belonging to this token does no longer exists")
	ErrAlreadyVerified      = apperrors.Conflict("Email has already been validated! Please log in with your email and password")
	ErrStaleSession         = apperrors.Unauthorized("User changed password recently! Please log in again")
	ErrRevokedSession       = apperrors.Unauthorized("Your session has ended! Please log in again")
	ErrNoUserWithEmail      = apperrors.NotFound("No user found with that email")
	ErrInvalidResetToken    = apperrors.Validation("Token is invalid or has expired")
	ErrMissingPasswords     = apperrors.Validation("Please provide old and new passwords and confirm the new password")
	ErrWrongCurrentPassword = apperrors.Validation("Your current password is wrong")
	ErrPasswordMismatch     = apperrors.Validation("Passwords are not the same!")
	ErrPasswordTooShort     = apperrors.Validation(fmt.Sprintf("Password must have at least %d characters", minPasswordLength))
)

const sendMailFailedMessage = "There was an error sending the email! Please try again later"

// Mailer delivers the account emails.
type Mailer interface {
	SendConfirmation(ctx context.Context, user *model.User, token string) error
	SendWelcome(ctx context.Context, user *model.User) error
	SendPasswordReset(ctx context.Context, user *model.User, token string) error
}

// Session is a freshly issued session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// SignUpInput carries the signup form.
type SignUpInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// AuthService handles authentication operations.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*model.User, error)
	ConfirmSignup(ctx context.Context, token string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password, passwordConfirm string) error
	Authenticate(ctx context.Context, claims *auth.Claims) (*model.User, error)
	UpdatePassword(ctx context.Context, user *model.User, current, next, confirm string) (*Session, error)
	IssueSession(user *model.User) (*Session, error)
}

// AuthConfig holds the settings AuthService needs from the process configuration.
type AuthConfig struct {
	ResetTokenTTL time.Duration
}

type authService struct {
	users      repository.UserRepository
	jwt        *auth.JWTService
	hasher     *auth.PasswordHasher
	revocation auth.RevocationStore
	mailer     Mailer
	cfg        AuthConfig
	now        func() time.Time
	log        *zap.Logger
	dummyHash  string
}

// NewAuthService creates a new authentication service. now must be the same clock the JWT
// service uses so password-change stamps and token issue times are comparable.
func NewAuthService(
	users repository.UserRepository,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	revocation auth.RevocationStore,
	mailer Mailer,
	cfg AuthConfig,
	now func() time.Time,
	log *zap.Logger,
) AuthService {
	if now == nil {
		now = time.Now
	}
	// Compared against on unknown emails so both login failures cost one bcrypt round.
	dummy, _ := hasher.Hash("natours-timing-equaliser")
	return &authService{
		users:      users,
		jwt:        jwtService,
		hasher:     hasher,
		revocation: revocation,
		mailer:     mailer,
		cfg:        cfg,
		now:        now,
		log:        log,
		dummyHash:  dummy,
	}
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateNewPassword checks length and confirmation of a password being set.
func ValidateNewPassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// SetPassword hashes plain into user and stamps the change time. Callers persist the user.
func SetPassword(hasher *auth.PasswordHasher, user *model.User, plain string, now time.Time) error {
	hash, err := hasher.Hash(plain)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	changed := now
	user.PasswordChangedAt = &changed
	user.ClearPasswordReset()
	return nil
}

// SignUp creates an unverified user and mails the confirmation link.
func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	if err := ValidateNewPassword(in.Password, in.PasswordConfirm); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        NormalizeEmail(in.Email),
		Role:         model.RoleUser,
		PasswordHash: hash,
		Status:       model.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendConfirmation(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ConfirmSignup redeems a confirmation token once.
func (s *authService) ConfirmSignup(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwt.ValidateConfirmationToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserGone
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.MailVerified {
		return nil, ErrAlreadyVerified
	}

	flipped, err := s.users.MarkVerified(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return nil, ErrAlreadyVerified
	}
	user.MailVerified = true

	if err := s.mailer.SendWelcome(ctx, user); err != nil {
		s.log.Warn("welcome mail not sent", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	return user, nil
}

// Login verifies credentials. Unverified users get a fresh confirmation mail instead of a session.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.Compare(s.dummyHash, password)
			return nil, ErrIncorrectCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, ErrIncorrectCredentials
	}

	if !user.MailVerified {
		if err := s.sendConfirmation(ctx, user); err != nil {
			return nil, err
		}
		return nil, ErrMailNotVerified
	}

	return s.IssueSession(user)
}

// Logout revokes the presented session until it would have expired.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	return s.revocation.Revoke(ctx, claims.ID, ttl)
}

// ForgotPassword stores a reset token digest and mails the raw token.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoUserWithEmail
		}
		return fmt.Errorf("find user: %w", err)
	}

	plain, digest, err := auth.NewResetToken()
	if err != nil {
		return err
	}
	expires := s.now().Add(s.cfg.ResetTokenTTL)
	user.PasswordResetToken = &digest
	user.PasswordResetExpires = &expires
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user, plain); err != nil {
		user.ClearPasswordReset()
		if saveErr := s.users.Save(ctx, user); saveErr != nil {
			s.log.Error("clear reset token", zap.String("user_id", user.ID.String()), zap.Error(saveErr))
		}
		return apperrors.Internal(sendMailFailedMessage, err)
	}
	return nil
}

// ResetPassword redeems an unexpired reset token and sets the new password.
func (s *authService) ResetPassword(ctx context.Context, token, password, passwordConfirm string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	if err := ValidateNewPassword(password, passwordConfirm); err != nil {
		return err
	}

	digest := auth.HashResetToken(token)
	user, err := s.users.FindByResetToken(ctx, digest)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("find reset token: %w", err)
	}

	now := s.now()
	if user.PasswordResetExpires == nil || !now.Before(*user.PasswordResetExpires) {
		return ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	consumed, err := s.users.ConsumeResetToken(ctx, user.ID, digest, hash, now)
	if err != nil {
		return err
	}
	if !consumed {
		return ErrInvalidResetToken
	}
	return nil
}

// Authenticate resolves the user behind validated session claims.
func (s *authService) Authenticate(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	if s.revocation.IsRevoked(ctx, claims.ID) {
		return nil, ErrRevokedSession
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserGone
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.ChangedPasswordAfter(claims.IssuedAtTime()) {
		return nil, ErrStaleSession
	}
	return user, nil
}

// UpdatePassword changes the password of an authenticated user and issues a new session.
func (s *authService) UpdatePassword(ctx context.Context, user *model.User, current, next, confirm string) (*Session, error) {
	if current == "" || next == "" || confirm == "" {
		return nil, ErrMissingPasswords
	}
	if !s.hasher.Compare(user.PasswordHash, current) {
		return nil, ErrWrongCurrentPassword
	}
	if err := ValidateNewPassword(next, confirm); err != nil {
		return nil, err
	}

	if err := SetPassword(s.hasher, user, next, s.now()); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}
	return s.IssueSession(user)
}

func (s *authService) IssueSession(user *model.User) (*Session, error) {
	token, claims, err := s.jwt.GenerateSessionToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

func (s *authService) sendConfirmation(ctx context.Context, user *model.User) error {
	token, err := s.jwt.GenerateConfirmationToken(user.ID)
	if err != nil {
		return fmt.Errorf("sign confirmation: %w", err)
	}
	if err := s.mailer.SendConfirmation(ctx, user, token); err != nil {
		return apperrors.Internal(sendMailFailedMessage, err)
	}
	return nil
}
