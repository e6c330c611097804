package booking

import (
	"context"

	bookingRepo "github.com/joelbobai/Manzo-BE/database/repository/booking"
	"github.com/joelbobai/Manzo-BE/models"
	"github.com/joelbobai/Manzo-BE/services/carrier"
	"github.com/joelbobai/Manzo-BE/services/commission"
	"github.com/joelbobai/Manzo-BE/services/notification"
	"github.com/joelbobai/Manzo-BE/services/payment"

	"go.uber.org/zap"
)

// TicketService runs the booking sequence and serves stored bookings.
type TicketService interface {
	IssueTicket(ctx context.Context, payload models.BookingPayload) (*IssueResult, error)
	BookingByID(ctx context.Context, id string) (*models.Booking, error)
}

// IssueResult is the outcome of a successful booking run.
type IssueResult struct {
	BookingID   string                 `json:"bookingId"`
	Reference   string                 `json:"reference"`
	IssuedOrder map[string]interface{} `json:"issuedOrder"`
}

// Reconciler accepts follow-up work for runs that failed after
// carrier-side effects had already happened.
type Reconciler interface {
	EnqueueReconcile(ctx context.Context, sagaID string) error
}

// DefaultTicketService is the production TicketService.
type DefaultTicketService struct {
	Carrier     carrier.Client
	Tokens      carrier.TokenProvider
	Gateway     payment.Gateway
	Commissions *commission.Table
	Repo        bookingRepo.Repository
	SagaRepo    bookingRepo.SagaRepository
	Notifier    notification.Notifier
	Reconciler  Reconciler
	Logger      *zap.Logger
}
