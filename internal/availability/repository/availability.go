package repository

import (
	"context"
	"fmt"
	"slotly/pkg/config"
	mongotx "slotly/pkg/db/mongo"
	"slotly/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Availability_blocks"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, block *model.AvailabilityBlock) error
	FindByService(ctx context.Context, serviceID string, limit int, offset int64) ([]*model.AvailabilityBlock, error)
	CountOverlapping(ctx context.Context, serviceID string, start, end time.Time) (int64, error)
	Count(ctx context.Context, serviceID string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type mongoAvailabilityRepository struct {
	readTimeout  time.Duration
	writeTimeout time.Duration
	collection   *mongo.Collection
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	return NewAvailabilityRepositoryFromClient(cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.ReadTimeout, cfg.WriteTimeout)
}

// NewAvailabilityRepositoryFromClient binds the repository to an already
// connected client. The maintenance CLI uses it with its own short-lived client.
func NewAvailabilityRepositoryFromClient(client *mongo.Client, database string, readTimeout, writeTimeout time.Duration) AvailabilityRepository {
	return &mongoAvailabilityRepository{
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		collection:   client.Database(database).Collection(CollectionName),
	}
}

func (r *mongoAvailabilityRepository) Create(ctx context.Context, block *model.AvailabilityBlock) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	block.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, block)
	if err != nil {
		return fmt.Errorf("failed to create availability block: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		block.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAvailabilityRepository) FindByService(ctx context.Context, serviceID string, limit int, offset int64) ([]*model.AvailabilityBlock, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"service_id": serviceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability blocks: %w", err)
	}
	defer cursor.Close(ctx)

	blocks := []*model.AvailabilityBlock{}
	if err = cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode availability blocks: %w", err)
	}
	return blocks, nil
}

func (r *mongoAvailabilityRepository) CountOverlapping(ctx context.Context, serviceID string, start, end time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	filter := bson.M{
		"service_id": serviceID,
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping availability blocks: %w", err)
	}
	return count, nil
}

// Count counts blocks of one service, or every block when serviceID is empty.
func (r *mongoAvailabilityRepository) Count(ctx context.Context, serviceID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	filter := bson.M{}
	if serviceID != "" {
		filter["service_id"] = serviceID
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count availability blocks: %w", err)
	}
	return count, nil
}

func (r *mongoAvailabilityRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete availability blocks: %w", err)
	}
	return result.DeletedCount, nil
}
