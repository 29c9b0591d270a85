// Package availability holds the maintenance operations over availability
// blocks. The request path lives in the handler, service and repository
// subpackages.
package availability

import (
	"context"
	"fmt"
	"slotly/internal/availability/repository"
	"slotly/pkg/client"
	"slotly/pkg/logger"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// PurgeErrorPrefix starts every error logged by Purge.
const PurgeErrorPrefix = "Error clearing availability blocks"

// Connection is a single database connection scoped to one maintenance run.
type Connection interface {
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context, serviceID string) (int64, error)
	Release(ctx context.Context) error
}

type Connector interface {
	Connect(ctx context.Context) (Connection, error)
}

type PurgeResult struct {
	Deleted   int64 `json:"deleted"`
	Remaining int64 `json:"remaining"`
}

type Purger struct {
	connector Connector
	log       *logger.Logger
}

func NewPurger(connector Connector, log *logger.Logger) *Purger {
	return &Purger{
		connector: connector,
		log:       log,
	}
}

// Purge deletes every availability block and reports how many rows are left.
// The connection is released on every path, including failures.
func (p *Purger) Purge(ctx context.Context) (PurgeResult, error) {
	var result PurgeResult

	conn, err := p.connector.Connect(ctx)
	if err != nil {
		p.log.Error(PurgeErrorPrefix, "error", err)
		return result, fmt.Errorf("%s: %w", PurgeErrorPrefix, err)
	}
	defer p.release(ctx, conn)

	result.Deleted, err = conn.DeleteAll(ctx)
	if err != nil {
		p.log.Error(PurgeErrorPrefix, "error", err)
		return result, fmt.Errorf("%s: %w", PurgeErrorPrefix, err)
	}
	p.log.Info("Deleted availability blocks", "count", result.Deleted)

	result.Remaining, err = conn.Count(ctx, "")
	if err != nil {
		p.log.Error(PurgeErrorPrefix, "error", err)
		return result, fmt.Errorf("%s: %w", PurgeErrorPrefix, err)
	}
	p.log.Info("Remaining availability blocks", "count", result.Remaining)

	return result, nil
}

// Count reports the number of availability blocks without touching them.
func (p *Purger) Count(ctx context.Context) (int64, error) {
	conn, err := p.connector.Connect(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to connect: %w", err)
	}
	defer p.release(ctx, conn)

	count, err := conn.Count(ctx, "")
	if err != nil {
		return 0, err
	}
	p.log.Info("Availability blocks", "count", count)
	return count, nil
}

func (p *Purger) release(ctx context.Context, conn Connection) {
	if err := conn.Release(context.WithoutCancel(ctx)); err != nil {
		p.log.Warn("Failed to release database connection", "error", err)
	}
}

// MongoConnector dials a fresh client per Connect.
type MongoConnector struct {
	URI          string
	Database     string
	ConnTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c MongoConnector) Connect(ctx context.Context) (Connection, error) {
	mc, err := client.ConnectMongo(ctx, c.URI, c.ConnTimeout)
	if err != nil {
		return nil, err
	}
	return &mongoConnection{
		AvailabilityRepository: repository.NewAvailabilityRepositoryFromClient(mc, c.Database, c.ReadTimeout, c.WriteTimeout),
		client:                 mc,
	}, nil
}

type mongoConnection struct {
	repository.AvailabilityRepository
	client *mongo.Client
}

func (c *mongoConnection) Release(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}
