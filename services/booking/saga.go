package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "github.com/joelbobai/Manzo-BE/database/repository/booking"
	"github.com/joelbobai/Manzo-BE/models"
	"github.com/joelbobai/Manzo-BE/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IssueTicket runs the booking sequence: verify payment, check for a
// duplicate reference, reserve with the carrier, apply commission,
// issue the ticket, persist the record, then notify. The sequence is
// not transactional — there is no compensation once carrier-side
// effects exist — so every transition is recorded and partial failures
// are handed to the reconciler.
func (s *DefaultTicketService) IssueTicket(ctx context.Context, payload models.BookingPayload) (*IssueResult, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	token, err := s.Tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain carrier token: %w", err)
	}

	saga := models.BookingSaga{
		ID:        uuid.New().String(),
		Reference: payload.Reference,
	}

	// VERIFY_PAYMENT — authoritative; nothing carrier-side has
	// happened yet, so a failure here is clean.
	s.transition(ctx, &saga, models.SagaStateVerifyPayment)
	verified, err := s.Gateway.Verify(ctx, payload.Reference)
	if err != nil {
		s.fail(ctx, &saga, models.SagaStateVerifyPayment, err)
		if errors.Is(err, payment.ErrVerifyNotSuccessful) {
			return nil, ErrPaymentNotSuccessful
		}
		return nil, fmt.Errorf("payment verification failed: %w", err)
	}

	// CHECK_DUPLICATE — fast path only; the store's unique index is
	// the real guard at insert time.
	s.transition(ctx, &saga, models.SagaStateCheckDuplicate)
	if _, err := s.Repo.FindByReference(ctx, payload.Reference); err == nil {
		s.fail(ctx, &saga, models.SagaStateCheckDuplicate, ErrDuplicateReference)
		return nil, ErrDuplicateReference
	} else if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.fail(ctx, &saga, models.SagaStateCheckDuplicate, err)
		return nil, fmt.Errorf("failed to check for existing booking: %w", err)
	}

	// RESERVE — first carrier mutation. Payment is already verified,
	// so a failure here leaves a money/booking mismatch for support.
	s.transition(ctx, &saga, models.SagaStateReserve)
	order, err := s.Carrier.Reserve(ctx, buildOrderPayload(payload), token)
	if err != nil {
		s.fail(ctx, &saga, models.SagaStateReserve, err)
		return nil, fmt.Errorf("%w: %v", ErrReservationFailed, err)
	}
	if order.ID == "" {
		s.fail(ctx, &saga, models.SagaStateReserve, ErrReservationFailed)
		return nil, ErrReservationFailed
	}
	saga.OrderID = order.ID

	// APPLY_COMMISSION — advisory to the carrier and best-effort
	// here: a failure is logged and the run continues.
	s.transition(ctx, &saga, models.SagaStateApplyCommission)
	pct := s.Commissions.For(carrierCodeFrom(payload.Flight))
	if err := s.Carrier.ApplyCommission(ctx, order.ID, commissionPayload(pct), token); err != nil {
		s.Logger.Warn("commission application failed, continuing",
			zap.String("orderId", order.ID),
			zap.Float64("percentage", pct),
			zap.Error(err),
		)
	}

	// ISSUE — failure strands an unissued reservation at the carrier.
	s.transition(ctx, &saga, models.SagaStateIssue)
	issued, err := s.Carrier.Issue(ctx, order.ID, token)
	if err != nil {
		s.fail(ctx, &saga, models.SagaStateIssue, err)
		s.enqueueReconcile(ctx, saga.ID)
		// The reservation is real even though ticketing failed; tell
		// the traveler it exists while support follows up.
		if notifyErr := s.Notifier.SendReservationNotice(ctx, order.Raw, payload.Travelers); notifyErr != nil {
			s.Logger.Warn("reservation notice email failed",
				zap.String("reference", payload.Reference),
				zap.Error(notifyErr),
			)
		}
		return nil, fmt.Errorf("ticket issuance failed: %w", err)
	}

	// PERSIST — before notification, so a mail outage can never lose
	// the record of an issued ticket.
	s.transition(ctx, &saga, models.SagaStatePersist)
	record := models.Booking{
		FlightBooked:        issued,
		MFlight:             payload.Flight,
		LittleFlightInfo:    payload.LittleFlightInfo,
		Reference:           payload.Reference,
		Travelers:           payload.Travelers,
		TransactionResponse: verified.Raw,
	}
	bookingID, err := s.Repo.Insert(ctx, record)
	if err != nil {
		s.fail(ctx, &saga, models.SagaStatePersist, err)
		s.enqueueReconcile(ctx, saga.ID)
		if errors.Is(err, bookingRepo.ErrReferenceExists) {
			// Lost the race: another run already persisted this
			// reference, and our ticket is now an orphan.
			return nil, ErrDuplicateReference
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	// NOTIFY — best-effort; the booking already exists.
	if err := s.Notifier.SendIssuanceConfirmation(ctx, issued, payload.Travelers); err != nil {
		s.Logger.Warn("issuance confirmation email failed",
			zap.String("reference", payload.Reference),
			zap.Error(err),
		)
	}

	s.transition(ctx, &saga, models.SagaStateDone)
	s.Logger.Info("booking completed",
		zap.String("reference", payload.Reference),
		zap.String("bookingId", bookingID),
		zap.String("orderId", order.ID),
	)

	return &IssueResult{
		BookingID:   bookingID,
		Reference:   payload.Reference,
		IssuedOrder: issued,
	}, nil
}

// BookingByID returns a stored booking.
func (s *DefaultTicketService) BookingByID(ctx context.Context, id string) (*models.Booking, error) {
	return s.Repo.FindByID(ctx, id)
}

func validatePayload(payload models.BookingPayload) error {
	if payload.Reference == "" {
		return newValidationError("payment reference is required")
	}
	if len(payload.Flight) == 0 {
		return newValidationError("flight offer is required")
	}
	if len(payload.Travelers) == 0 {
		return newValidationError("at least one traveler is required")
	}
	return nil
}

// buildOrderPayload shapes the carrier's flight-order create document.
func buildOrderPayload(payload models.BookingPayload) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			"type":         "flight-order",
			"flightOffers": []interface{}{payload.Flight},
			"travelers":    payload.Travelers,
		},
	}
}

// commissionPayload shapes the commission PATCH document.
func commissionPayload(percentage float64) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			"type": "flight-order",
			"commissions": []interface{}{
				map[string]interface{}{
					"values": []interface{}{
						map[string]interface{}{
							"commissionType": "NEW",
							"percentage":     percentage,
						},
					},
				},
			},
		},
	}
}

// carrierCodeFrom picks the carrier code the commission lookup keys
// on: the offer's validating airline, falling back to the first
// segment's carrier.
func carrierCodeFrom(flight map[string]interface{}) string {
	if codes, ok := flight["validatingAirlineCodes"].([]interface{}); ok && len(codes) > 0 {
		if code, ok := codes[0].(string); ok {
			return code
		}
	}

	itineraries, _ := flight["itineraries"].([]interface{})
	for _, rawItinerary := range itineraries {
		itinerary, _ := rawItinerary.(map[string]interface{})
		if itinerary == nil {
			continue
		}
		segments, _ := itinerary["segments"].([]interface{})
		for _, rawSegment := range segments {
			segment, _ := rawSegment.(map[string]interface{})
			if segment == nil {
				continue
			}
			if code, ok := segment["carrierCode"].(string); ok && code != "" {
				return code
			}
		}
	}
	return ""
}

// transition advances the saga record. Bookkeeping failures are
// logged, never fatal to the run itself.
func (s *DefaultTicketService) transition(ctx context.Context, saga *models.BookingSaga, state string) {
	saga.State = state
	if err := s.SagaRepo.Upsert(ctx, *saga); err != nil {
		s.Logger.Warn("failed to record saga transition",
			zap.String("sagaId", saga.ID),
			zap.String("state", state),
			zap.Error(err),
		)
	}
}

func (s *DefaultTicketService) fail(ctx context.Context, saga *models.BookingSaga, at string, cause error) {
	saga.State = models.SagaStateFailed
	saga.FailedAt = at
	saga.Reason = cause.Error()
	if err := s.SagaRepo.Upsert(ctx, *saga); err != nil {
		s.Logger.Warn("failed to record saga failure",
			zap.String("sagaId", saga.ID),
			zap.Error(err),
		)
	}
}

func (s *DefaultTicketService) enqueueReconcile(ctx context.Context, sagaID string) {
	if s.Reconciler == nil {
		return
	}
	if err := s.Reconciler.EnqueueReconcile(ctx, sagaID); err != nil {
		s.Logger.Warn("failed to enqueue reconciliation",
			zap.String("sagaId", sagaID),
			zap.Error(err),
		)
	}
}
