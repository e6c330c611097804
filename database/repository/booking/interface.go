package bookingRepo

import (
	"context"
	"log"
	"time"

	"github.com/joelbobai/Manzo-BE/database"
	"github.com/joelbobai/Manzo-BE/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Repository persists completed flight bookings. At most one booking
// may exist per payment reference; the unique index on "reference" is
// the real guard, the FindByReference pre-check is only a fast path.
type Repository interface {
	Insert(ctx context.Context, booking models.Booking) (string, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindByReference(ctx context.Context, reference string) (*models.Booking, error)
}

// SagaRepository tracks in-flight booking runs so partial failures can
// be reconciled later.
type SagaRepository interface {
	Upsert(ctx context.Context, saga models.BookingSaga) error
	FindByID(ctx context.Context, id string) (*models.BookingSaga, error)
	FindStalled(ctx context.Context, olderThan time.Duration) ([]models.BookingSaga, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a new Repository instance using MongoDB.
func NewMongoBookingRepo() Repository {
	db := database.MongoClient.Database("manzo")
	repo := &mongoBookingRepo{
		coll: db.Collection("flightbookeds"),
	}
	if err := repo.ensureIndexes(); err != nil {
		// Without the unique reference index the duplicate guard is
		// reduced to the pre-check lookup, so refuse to start.
		log.Fatalf("booking repo: %v", err)
	}
	return repo
}

type mongoSagaRepo struct {
	coll *mongo.Collection
}

// NewMongoSagaRepo returns a new SagaRepository instance using MongoDB.
func NewMongoSagaRepo() SagaRepository {
	db := database.MongoClient.Database("manzo")
	return &mongoSagaRepo{
		coll: db.Collection("booking_sagas"),
	}
}
