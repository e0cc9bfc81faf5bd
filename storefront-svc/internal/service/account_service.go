package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"

	"zestify-storefront/storefront-svc/internal/domain"
)

type AccountView struct {
	LoggedIn bool            `json:"logged_in"`
	Profile  *domain.Profile `json:"profile,omitempty"`
}

type AccountService struct {
	api    AccountAPI
	logger zerolog.Logger
	cartWriter
}

func NewAccountService(api AccountAPI, sessions *SessionManager, drafts DraftQueue, logger zerolog.Logger) *AccountService {
	return &AccountService{api: api, logger: logger, cartWriter: cartWriter{sessions: sessions, drafts: drafts}}
}

func (s *AccountService) Login(ctx context.Context, sess *Session, creds domain.Credentials) (AccountView, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := validateEmail(creds.Email); err != nil {
		return AccountView{}, err
	}
	if creds.Password == "" {
		return AccountView{}, domain.NewValidationError("password", "is required")
	}

	auth, err := s.api.Login(ctx, creds)
	if err != nil {
		return AccountView{}, err
	}
	return s.signIn(ctx, sess, auth), nil
}

func (s *AccountService) Signup(ctx context.Context, sess *Session, req domain.SignupRequest) (AccountView, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" {
		return AccountView{}, domain.NewValidationError("name", "is required")
	}
	if err := validateEmail(req.Email); err != nil {
		return AccountView{}, err
	}
	if len(req.Password) < 6 {
		return AccountView{}, domain.NewValidationError("password", "must be at least 6 characters")
	}

	auth, err := s.api.Signup(ctx, req)
	if err != nil {
		return AccountView{}, err
	}
	return s.signIn(ctx, sess, auth), nil
}

// Logout drops the cart, the auth state and any open addon selection.
func (s *AccountService) Logout(ctx context.Context, sess *Session) error {
	sess.Flow.Cancel()
	snap := sess.Cart.Clear()
	sess.SetAuth(domain.AuthState{})
	s.sessions.ClearPersisted(ctx, sess)
	if s.drafts != nil {
		s.drafts.Enqueue(sess.ID, snap)
	}
	return nil
}

func (s *AccountService) Account(sess *Session) AccountView {
	auth := sess.Auth()
	return AccountView{LoggedIn: auth.LoggedIn(), Profile: auth.Profile}
}

func (s *AccountService) Profile(ctx context.Context, sess *Session) (domain.Profile, error) {
	token, err := requireToken(sess)
	if err != nil {
		return domain.Profile{}, err
	}
	profile, err := s.api.GetProfile(ctx, token)
	if err != nil {
		return domain.Profile{}, s.expireOnUnauthorized(ctx, sess, err)
	}
	s.storeProfile(ctx, sess, profile)
	return profile, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, sess *Session, p domain.Profile) (domain.Profile, error) {
	token, err := requireToken(sess)
	if err != nil {
		return domain.Profile{}, err
	}
	if p.Email != "" {
		if err := validateEmail(p.Email); err != nil {
			return domain.Profile{}, err
		}
	}
	profile, err := s.api.UpdateProfile(ctx, token, p)
	if err != nil {
		return domain.Profile{}, s.expireOnUnauthorized(ctx, sess, err)
	}
	s.storeProfile(ctx, sess, profile)
	return profile, nil
}

func (s *AccountService) SetLocation(ctx context.Context, sess *Session, loc domain.Location) (domain.Location, error) {
	if err := validateLocation(loc); err != nil {
		return domain.Location{}, err
	}
	sess.SetLocation(loc)
	if err := s.sessions.PersistLocation(ctx, sess); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to persist location")
	}
	return loc, nil
}

func (s *AccountService) Location(sess *Session) (domain.Location, bool) {
	return sess.Location()
}

func (s *AccountService) signIn(ctx context.Context, sess *Session, auth domain.AuthState) AccountView {
	if auth.Profile == nil {
		if profile, err := s.api.GetProfile(ctx, auth.Token); err == nil {
			auth.Profile = &profile
		} else {
			s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("profile fetch after sign in failed")
		}
	}
	sess.SetAuth(auth)
	s.sessions.PersistAuth(ctx, sess)
	return s.Account(sess)
}

func (s *AccountService) storeProfile(ctx context.Context, sess *Session, profile domain.Profile) {
	auth := sess.Auth()
	auth.Profile = &profile
	sess.SetAuth(auth)
	s.sessions.PersistAuth(ctx, sess)
}

// expireOnUnauthorized forgets a token the remote API no longer accepts.
func (s *AccountService) expireOnUnauthorized(ctx context.Context, sess *Session, err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		sess.SetAuth(domain.AuthState{})
		s.sessions.PersistAuth(ctx, sess)
	}
	return err
}

func validateEmail(email string) error {
	if email == "" {
		return domain.NewValidationError("email", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.NewValidationError("email", "is not a valid address")
	}
	return nil
}
