package bookingRepo

import (
	"context"
	"time"

	"github.com/joelbobai/Manzo-BE/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Upsert writes the saga document keyed by its run ID, stamping
// UpdatedAt on every transition.
func (r *mongoSagaRepo) Upsert(ctx context.Context, saga models.BookingSaga) error {
	saga.UpdatedAt = time.Now()
	if saga.CreatedAt.IsZero() {
		saga.CreatedAt = saga.UpdatedAt
	}

	filter := bson.M{"id": saga.ID}
	update := bson.M{"$set": saga}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// FindByID returns a saga document by its run ID.
func (r *mongoSagaRepo) FindByID(ctx context.Context, id string) (*models.BookingSaga, error) {
	var saga models.BookingSaga
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&saga); err != nil {
		return nil, err
	}
	return &saga, nil
}

// FindStalled returns runs that never reached a terminal state and
// have not moved for at least olderThan. These are the orphan
// candidates: a reservation with no ticket, or a ticket with no local
// record.
func (r *mongoSagaRepo) FindStalled(ctx context.Context, olderThan time.Duration) ([]models.BookingSaga, error) {
	cutoff := time.Now().Add(-olderThan)
	filter := bson.M{
		"state":     bson.M{"$nin": bson.A{models.SagaStateDone, models.SagaStateFailed}},
		"updatedAt": bson.M{"$lt": cutoff},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sagas []models.BookingSaga
	if err := cursor.All(ctx, &sagas); err != nil {
		return nil, err
	}
	return sagas, nil
}
