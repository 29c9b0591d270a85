package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	availabilityrepo "slotly/internal/availability/repository"
	bookingsrepo "slotly/internal/bookings/repository"
	"slotly/internal/migrations/mongo/validators"
	"slotly/pkg/logger"
)

var (
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "service_id", Value: 1},
			{Key: "start_time", Value: 1},
			{Key: "end_time", Value: 1},
		}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{
			{Key: "customer_phone", Value: 1},
			{Key: "start_time", Value: 1},
		}},
	}

	AvailabilityIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "service_id", Value: 1},
			{Key: "start_time", Value: 1},
			{Key: "end_time", Value: 1},
		}},
	}

	// Locks expire on their own once expires_at passes.
	BookingLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

type CollectionDef struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() []CollectionDef {
	return []CollectionDef{
		{Name: bookingsrepo.CollectionName, Indexes: BookingsIndexes, Validator: validators.BookingValidator},
		{Name: availabilityrepo.CollectionName, Indexes: AvailabilityIndexes, Validator: validators.AvailabilityBlockValidator},
		{Name: bookingsrepo.LockCollectionName, Indexes: BookingLocksIndexes},
	}
}

// RunMigration creates missing collections, refreshes their validators and
// ensures indexes. Running it twice is harmless.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range Collections() {
		if err := ensureCollection(ctx, db, def, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
		log.Info("Collection ready", "collection", def.Name, "indexes", len(def.Indexes))
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, def CollectionDef, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: def.Name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", def.Name)
		opts := options.CreateCollection()
		if def.Validator != nil {
			opts.SetValidator(def.Validator)
		}
		if err := db.CreateCollection(ctx, def.Name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", def.Name, err)
		}
		return nil
	}

	if def.Validator == nil {
		return nil
	}
	command := bson.D{
		{Key: "collMod", Value: def.Name},
		{Key: "validator", Value: def.Validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", def.Name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, def CollectionDef) error {
	if len(def.Indexes) == 0 {
		return nil
	}
	_, err := db.Collection(def.Name).Indexes().CreateMany(ctx, def.Indexes)
	return err
}
