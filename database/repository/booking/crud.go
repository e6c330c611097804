package bookingRepo

import (
	"context"
	"time"

	"github.com/joelbobai/Manzo-BE/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Insert stores a completed booking and returns its document ID. A
// duplicate-key violation on "reference" is surfaced as
// ErrReferenceExists so the caller can map it to a conflict.
func (r *mongoBookingRepo) Insert(ctx context.Context, booking models.Booking) (string, error) {
	now := time.Now()
	booking.Date = now
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.ID = primitive.NilObjectID

	res, err := r.coll.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrReferenceExists
		}
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return "", nil
}

// FindByID returns a booking by its Mongo document ID.
func (r *mongoBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidBookingID
	}

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// FindByReference returns the booking created under a payment
// reference, or ErrBookingNotFound when none exists.
func (r *mongoBookingRepo) FindByReference(ctx context.Context, reference string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"reference": reference}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}
