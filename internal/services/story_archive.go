package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/lifestory-backend/internal/models"
)

const storiesCollection = "stories"

// StoryArchive keeps generated stories so they can be revisited.
type StoryArchive interface {
	Record(ctx context.Context, story *models.Story) error
	Recent(ctx context.Context, limit int64) ([]models.Story, error)
}

// MongoStoryArchive stores stories in the "stories" collection.
type MongoStoryArchive struct {
	col *mongo.Collection
}

func NewMongoStoryArchive(db *mongo.Database) *MongoStoryArchive {
	return &MongoStoryArchive{col: db.Collection(storiesCollection)}
}

// EnsureIndexes creates the created_at index used by Recent.
// Called on startup from main after Mongo has connected.
func (a *MongoStoryArchive) EnsureIndexes(ctx context.Context) error {
	_, err := a.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_created_at"),
	})
	return err
}

// Record assigns the story an ID and inserts it.
func (a *MongoStoryArchive) Record(ctx context.Context, story *models.Story) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if story.ID == "" {
		story.ID = uuid.NewString()
	}
	if story.CreatedAt.IsZero() {
		story.CreatedAt = time.Now().UTC()
	}
	_, err := a.col.InsertOne(ctx, story)
	return err
}

// Recent returns up to limit stories, newest first.
func (a *MongoStoryArchive) Recent(ctx context.Context, limit int64) ([]models.Story, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := a.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	stories := make([]models.Story, 0)
	if err := cur.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}
