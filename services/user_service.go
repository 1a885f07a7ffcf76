package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pilab-dev/osm-auth/domain"
	"github.com/pilab-dev/osm-auth/internal/audit"
	"github.com/pilab-dev/osm-auth/internal/metrics"
	"github.com/pilab-dev/osm-auth/internal/osm"
	"github.com/rs/zerolog/log"
)

// ReconcileOutcome tells whether reconciliation created a new local user.
type ReconcileOutcome int

const (
	OutcomeFound ReconcileOutcome = iota
	OutcomeCreated
)

func (o ReconcileOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeFound:
		return "found"
	default:
		return "unknown"
	}
}

// ReconcileResult is the local user after an OSM login plus how it was obtained.
type ReconcileResult struct {
	User    *domain.User
	Outcome ReconcileOutcome
}

// UserService maps OSM identities onto local users.
type UserService struct {
	repo domain.UserRepository
	now  func() time.Time
}

func NewUserService(repo domain.UserRepository) *UserService {
	return &UserService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Reconcile finds the local user for identity, creating it on first login.
// An existing user gets its username, changeset count and picture refreshed;
// its email address is left alone. emailAddress is only stored on creation
// and only when non-empty.
func (s *UserService) Reconcile(ctx context.Context, identity *osm.ExternalIdentity, emailAddress string) (*ReconcileResult, error) {
	now := s.now()

	user, err := s.repo.FindByID(ctx, identity.ID)
	if err == nil {
		return s.refresh(ctx, user, identity, now)
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user %d: %w", identity.ID, err)
	}

	user = &domain.User{
		ID:             identity.ID,
		Username:       identity.DisplayName,
		ChangesetCount: identity.ChangesetCount,
		PictureURL:     identity.AvatarURL,
		CreatedAt:      now,
		LastLoginAt:    &now,
	}
	if emailAddress != "" {
		user.EmailAddress = &emailAddress
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, fmt.Errorf("failed to create user %d: %w", identity.ID, err)
		}

		// A concurrent first login created the record between our read and write.
		existing, findErr := s.repo.FindByID(ctx, identity.ID)
		if findErr != nil {
			return nil, fmt.Errorf("failed to reload user %d: %w", identity.ID, findErr)
		}
		return s.refresh(ctx, existing, identity, now)
	}

	metrics.UserRegisteredTotal.Inc()
	audit.Record(audit.Event{
		Action:  audit.ActionUserCreated,
		User:    user.Username,
		Target:  strconv.FormatInt(user.ID, 10),
		Success: true,
	})
	log.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("Registered new user from OSM login")

	return &ReconcileResult{User: user, Outcome: OutcomeCreated}, nil
}

func (s *UserService) refresh(ctx context.Context, user *domain.User, identity *osm.ExternalIdentity, now time.Time) (*ReconcileResult, error) {
	user.Username = identity.DisplayName
	user.ChangesetCount = identity.ChangesetCount
	user.PictureURL = identity.AvatarURL
	user.LastLoginAt = &now

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}

	return &ReconcileResult{User: user, Outcome: OutcomeFound}, nil
}

// GetUserByUsername returns domain.ErrUserNotFound if there is no such user.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// GetUserByID returns domain.ErrUserNotFound if there is no such user.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}
