package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pilab-dev/osm-auth/domain"
	"github.com/pilab-dev/osm-auth/internal/metrics"
)

const (
	welcomeSubject = "Welcome to the Tasking Manager"
	welcomeBody    = "Hi %s,\n\nWelcome to the Tasking Manager! Your OpenStreetMap account is now connected. " +
		"Browse the open projects to start mapping, and check your messages here for updates on the tasks you contribute to."
)

// MessageService stores in-app messages for users.
type MessageService struct {
	repo domain.MessageRepository
}

func NewMessageService(repo domain.MessageRepository) *MessageService {
	return &MessageService{repo: repo}
}

// SendWelcomeMessage stores the welcome message for a newly registered user.
func (s *MessageService) SendWelcomeMessage(ctx context.Context, user *domain.User) error {
	msg := &domain.Message{
		ID:          uuid.NewString(),
		ToUserID:    user.ID,
		Subject:     welcomeSubject,
		Body:        fmt.Sprintf(welcomeBody, user.Username),
		MessageType: domain.MessageTypeWelcome,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		metrics.WelcomeMessagesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to send welcome message to user %d: %w", user.ID, err)
	}

	metrics.WelcomeMessagesTotal.WithLabelValues("sent").Inc()
	return nil
}
