package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pilab-dev/osm-auth/cache"
	"github.com/pilab-dev/osm-auth/domain"
	"github.com/pilab-dev/osm-auth/dto"
	autherrors "github.com/pilab-dev/osm-auth/errors"
	"github.com/pilab-dev/osm-auth/internal/audit"
	"github.com/pilab-dev/osm-auth/internal/metrics"
	"github.com/pilab-dev/osm-auth/internal/osm"
	"github.com/pilab-dev/osm-auth/tracing"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultStateTTL = 10 * time.Minute

// WelcomeNotifier greets users on their first login.
type WelcomeNotifier interface {
	SendWelcomeMessage(ctx context.Context, user *domain.User) error
}

// AuthServiceOptions holds the collaborators of AuthService.
type AuthServiceOptions struct {
	OAuth    osm.Config
	Provider osm.Provider
	Users    *UserService
	Notifier WelcomeNotifier
	// States defaults to an in-memory store.
	States cache.StateStore
	// Sessions is optional; without it no session_token is returned.
	Sessions *SessionTokenIssuer
	StateTTL time.Duration
	// RequireState rejects callbacks that carry no state parameter.
	RequireState bool
}

// AuthService runs the OSM authorization code login.
type AuthService struct {
	oauth        osm.Config
	provider     osm.Provider
	users        *UserService
	notifier     WelcomeNotifier
	states       cache.StateStore
	sessions     *SessionTokenIssuer
	stateTTL     time.Duration
	requireState bool
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.StateTTL <= 0 {
		opts.StateTTL = defaultStateTTL
	}
	if opts.States == nil {
		opts.States = cache.NewMemoryStateStore(opts.StateTTL)
	}
	return &AuthService{
		oauth:        opts.OAuth,
		provider:     opts.Provider,
		users:        opts.Users,
		notifier:     opts.Notifier,
		states:       opts.States,
		sessions:     opts.Sessions,
		stateTTL:     opts.StateTTL,
		requireState: opts.RequireState,
	}
}

// Login issues a fresh state and the authorization URL that carries it.
// redirectURI overrides the configured redirect URI when non-empty.
func (s *AuthService) Login(ctx context.Context, redirectURI string) (*dto.LoginChallenge, error) {
	state := osm.GenerateState()

	entry := &cache.StateEntry{RedirectURI: redirectURI, IssuedAt: time.Now().UTC()}
	if err := s.states.Put(ctx, state, entry, s.stateTTL); err != nil {
		return nil, autherrors.NewInternal(fmt.Errorf("failed to store oauth state: %w", err))
	}

	metrics.LoginChallengesTotal.Inc()

	return &dto.LoginChallenge{
		AuthURL: osm.BuildAuthorizationURL(s.oauth, state, redirectURI),
		State:   state,
	}, nil
}

// CallbackRequest carries the query parameters of the provider redirect.
type CallbackRequest struct {
	Code         string
	State        string
	EmailAddress string
	RedirectURI  string
}

type callbackStep string

const (
	stepAwaitingCode   callbackStep = "awaiting_code"
	stepTokenExchanged callbackStep = "token_exchanged"
	stepProfileFetched callbackStep = "profile_fetched"
	stepReconciled     callbackStep = "reconciled"
)

// Callback completes a login. Every failure is returned as *autherrors.AuthError.
func (s *AuthService) Callback(ctx context.Context, req CallbackRequest) (*dto.Session, error) {
	ctx, span := tracing.Start(ctx, "AuthService.Callback")
	defer span.End()

	session, step, err := s.callback(ctx, req)
	span.SetAttributes(attribute.String("auth.step", string(step)))

	if err != nil {
		authErr := autherrors.AsAuthError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, authErr.SubCode)
		metrics.LoginFailureTotal.WithLabelValues(authErr.SubCode).Inc()
		audit.Record(audit.Event{
			Action:  audit.ActionLogin,
			Details: string(step),
			Err:     err,
		})
		log.Warn().Err(err).Str("step", string(step)).Str("subCode", authErr.SubCode).Msg("OSM login failed")
		return nil, authErr
	}

	metrics.LoginSuccessTotal.Inc()
	audit.Record(audit.Event{
		Action:  audit.ActionLogin,
		User:    session.Username,
		Target:  strconv.FormatInt(session.Session, 10),
		Success: true,
	})
	return session, nil
}

// callback returns the last step reached alongside the outcome.
func (s *AuthService) callback(ctx context.Context, req CallbackRequest) (*dto.Session, callbackStep, error) {
	step := stepAwaitingCode

	if req.Code == "" {
		return nil, step, autherrors.NewMissingCode()
	}

	redirectURI, err := s.verifyState(ctx, req)
	if err != nil {
		return nil, step, err
	}

	token, err := s.provider.FetchToken(ctx, req.Code, redirectURI)
	if err != nil {
		var authErr *autherrors.AuthError
		if errors.As(err, &authErr) {
			return nil, step, authErr
		}
		return nil, step, autherrors.NewTokenFetch(err)
	}
	if token == nil || token.AccessToken == "" {
		return nil, step, autherrors.NewTokenFetch(osm.ErrEmptyToken)
	}
	step = stepTokenExchanged

	identity, err := s.provider.GetProfile(ctx, token)
	if err != nil {
		var authErr *autherrors.AuthError
		if errors.As(err, &authErr) {
			return nil, step, authErr
		}
		return nil, step, autherrors.NewOSMService(err)
	}
	if identity == nil {
		return nil, step, autherrors.NewAuthFailure(osm.ErrIncompleteProfile)
	}
	step = stepProfileFetched

	result, err := s.users.Reconcile(ctx, identity, req.EmailAddress)
	if err != nil {
		return nil, step, autherrors.NewInternal(err)
	}
	step = stepReconciled

	if result.Outcome == OutcomeCreated && s.notifier != nil {
		if err := s.notifier.SendWelcomeMessage(ctx, result.User); err != nil {
			log.Error().Err(err).Int64("userID", result.User.ID).Msg("Failed to send welcome message")
		}
	}

	session := &dto.Session{
		Username: result.User.Username,
		Session:  result.User.ID,
		Picture:  identity.AvatarURL,
	}

	if s.sessions != nil {
		signed, err := s.sessions.Issue(result.User)
		if err != nil {
			return nil, step, autherrors.NewInternal(err)
		}
		session.SessionToken = signed
	}

	return session, step, nil
}

// verifyState consumes the state of a callback and returns the redirect URI
// to use for the token exchange.
func (s *AuthService) verifyState(ctx context.Context, req CallbackRequest) (string, error) {
	if req.State == "" {
		if s.requireState {
			return "", autherrors.NewInvalidState()
		}
		return req.RedirectURI, nil
	}

	entry, err := s.states.Consume(ctx, req.State)
	if err != nil {
		if errors.Is(err, cache.ErrStateNotFound) {
			return "", autherrors.NewInvalidState()
		}
		return "", autherrors.NewInternal(err)
	}

	if req.RedirectURI != "" {
		return req.RedirectURI, nil
	}
	return entry.RedirectURI, nil
}
