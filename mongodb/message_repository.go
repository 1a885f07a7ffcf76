package mongodb

import (
	"context"
	"fmt"

	"github.com/pilab-dev/osm-auth/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MessageRepository implements domain.MessageRepository.
type MessageRepository struct {
	messages *mongo.Collection
}

func NewMessageRepository(ctx context.Context, db *mongo.Database) (*MessageRepository, error) {
	repo := &MessageRepository{
		messages: db.Collection(MessagesCollection),
	}

	_, err := repo.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "to_user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create message indexes")
	}

	return repo, nil
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if _, err := r.messages.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *MessageRepository) CountForUser(ctx context.Context, userID int64) (int64, error) {
	count, err := r.messages.CountDocuments(ctx, bson.M{"to_user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

var _ domain.MessageRepository = (*MessageRepository)(nil)
