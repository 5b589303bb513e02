package auth

import (
	"context"
	"errors"
	"time"

	"github.com/pquerna/otp/totp"

	cryptoutil "kiwihr/internal/platform/crypto"
)

// ErrInvalidCredentials deliberately covers both unknown-email and
// wrong-password so account existence is not leaked.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMFARequired        = errors.New("mfa code required")
	ErrMFAInvalid         = errors.New("invalid mfa code")
)

// Service owns the session lifecycle: anonymous -> authenticated on Login,
// authenticated -> anonymous on Logout. It is the only place that consults
// the registry to materialize a permission set.
type Service struct {
	Accounts *AccountStore
	Sessions *SessionStore
	Crypto   *cryptoutil.Service
	Secret   string
	TokenTTL time.Duration
}

func NewService(accounts *AccountStore, sessions *SessionStore, crypto *cryptoutil.Service, secret string, tokenTTL time.Duration) *Service {
	return &Service{Accounts: accounts, Sessions: sessions, Crypto: crypto, Secret: secret, TokenTTL: tokenTTL}
}

// Login resolves the credentials to an account, materializes the identity and
// its permission set, stores the session and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password, mfaCode string) (*Identity, string, error) {
	account, ok := s.Accounts.FindByEmail(email)
	if !ok {
		// Burn a comparison anyway so the timing of the two failure
		// paths stays close.
		_ = CheckPassword("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinval", password)
		return nil, "", ErrInvalidCredentials
	}
	if err := CheckPassword(account.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if account.MFAEnabled {
		if mfaCode == "" {
			return nil, "", ErrMFARequired
		}
		secret, err := s.mfaSecret(account)
		if err != nil || secret == "" || !totp.Validate(mfaCode, secret) {
			return nil, "", ErrMFAInvalid
		}
	}

	identity := NewIdentity(account.ID, account.Email, account.Name, account.Role, account.OrganizationID, account.TeamID)
	sessionID, err := s.Sessions.Create(identity)
	if err != nil {
		return nil, "", err
	}

	token, err := GenerateToken(s.Secret, Claims{
		UserID:         identity.ID,
		Role:           string(identity.Role),
		OrganizationID: identity.OrganizationID,
		TeamID:         identity.TeamID,
		SessionID:      sessionID,
	}, s.TokenTTL)
	if err != nil {
		s.Sessions.Revoke(sessionID)
		return nil, "", err
	}
	return identity, token, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) {
	if sessionID != "" {
		s.Sessions.Revoke(sessionID)
	}
}

// IdentityForToken restores the identity for a bearer token. A missing or
// expired session leaves the request anonymous rather than failing it.
func (s *Service) IdentityForToken(token string) (*Identity, string, bool) {
	claims, err := ParseToken(s.Secret, token)
	if err != nil {
		return nil, "", false
	}
	identity, ok := s.Sessions.Get(claims.SessionID)
	if !ok {
		return nil, "", false
	}
	return identity, claims.SessionID, true
}

// StoreMFASecret records a pending TOTP secret for the account. MFA is not
// enforced until the owner confirms a code via EnableMFA.
func (s *Service) StoreMFASecret(ctx context.Context, email, secret string) error {
	account, ok := s.Accounts.FindByEmail(email)
	if !ok {
		return ErrInvalidCredentials
	}
	enc := []byte(secret)
	if s.Crypto != nil && s.Crypto.Configured() {
		var err error
		enc, err = s.Crypto.EncryptString(secret)
		if err != nil {
			return err
		}
	}
	if !s.Accounts.SetMFASecret(account.ID, enc) {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *Service) EnableMFA(ctx context.Context, email, code string) error {
	return s.setMFAEnabled(email, code, true)
}

func (s *Service) DisableMFA(ctx context.Context, email, code string) error {
	return s.setMFAEnabled(email, code, false)
}

func (s *Service) setMFAEnabled(email, code string, enabled bool) error {
	account, ok := s.Accounts.FindByEmail(email)
	if !ok {
		return ErrInvalidCredentials
	}
	secret, err := s.mfaSecret(account)
	if err != nil || secret == "" || !totp.Validate(code, secret) {
		return ErrMFAInvalid
	}
	if !s.Accounts.SetMFAEnabled(account.ID, enabled) {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *Service) mfaSecret(account Account) (string, error) {
	if s.Crypto != nil && s.Crypto.Configured() {
		return s.Crypto.DecryptString(account.MFASecretEnc)
	}
	return string(account.MFASecretEnc), nil
}
