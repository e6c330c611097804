package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingRepo "github.com/joelbobai/Manzo-BE/database/repository/booking"
	"github.com/joelbobai/Manzo-BE/models"
	"github.com/joelbobai/Manzo-BE/services/carrier"
	"github.com/joelbobai/Manzo-BE/services/commission"
	"github.com/joelbobai/Manzo-BE/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- mocks ---

type stubTokens struct{}

func (stubTokens) Token(ctx context.Context) (string, error) { return "test-token", nil }
func (stubTokens) ForceRefresh(ctx context.Context) error    { return nil }

type mockGateway struct {
	status    string
	err       error
	verifyCnt int
}

func (m *mockGateway) Verify(ctx context.Context, reference string) (*payment.VerifyResult, error) {
	m.verifyCnt++
	if m.err != nil {
		return nil, m.err
	}
	result := &payment.VerifyResult{
		Status: m.status,
		Amount: 150000,
		Raw: map[string]interface{}{
			"status": true,
			"data":   map[string]interface{}{"status": m.status, "reference": reference},
		},
	}
	if m.status != "success" {
		return result, payment.ErrVerifyNotSuccessful
	}
	return result, nil
}

func (m *mockGateway) InitializeLink(ctx context.Context, email string, amount int64) (*payment.InitResult, error) {
	return nil, errors.New("not implemented")
}

type mockCarrier struct {
	reserveCnt    int
	commissionCnt int
	issueCnt      int

	reserveOrder  *carrier.Order
	reserveErr    error
	commissionPct float64
	issueErr      error
}

func (m *mockCarrier) SearchOffers(ctx context.Context, req models.FlightOffersSearchRequest, token string) (*carrier.OfferSet, error) {
	return &carrier.OfferSet{}, nil
}

func (m *mockCarrier) SearchOffersMultiCity(ctx context.Context, req models.FlightOffersSearchRequest, token string) (*carrier.OfferSet, error) {
	return &carrier.OfferSet{}, nil
}

func (m *mockCarrier) PriceOffers(ctx context.Context, offers map[string]interface{}, token string) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func (m *mockCarrier) Reserve(ctx context.Context, order map[string]interface{}, token string) (*carrier.Order, error) {
	m.reserveCnt++
	if m.reserveErr != nil {
		return nil, m.reserveErr
	}
	return m.reserveOrder, nil
}

func (m *mockCarrier) ApplyCommission(ctx context.Context, orderID string, payload map[string]interface{}, token string) error {
	m.commissionCnt++
	if data, ok := payload["data"].(map[string]interface{}); ok {
		if commissions, ok := data["commissions"].([]interface{}); ok && len(commissions) > 0 {
			entry := commissions[0].(map[string]interface{})
			values := entry["values"].([]interface{})
			value := values[0].(map[string]interface{})
			m.commissionPct, _ = value["percentage"].(float64)
		}
	}
	return nil
}

func (m *mockCarrier) Issue(ctx context.Context, orderID string, token string) (map[string]interface{}, error) {
	m.issueCnt++
	if m.issueErr != nil {
		return nil, m.issueErr
	}
	return map[string]interface{}{
		"data": map[string]interface{}{"id": orderID, "ticketingAgreement": "CONFIRM"},
	}, nil
}

type memoryRepo struct {
	byReference map[string]models.Booking
	insertCnt   int
	insertErr   error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byReference: make(map[string]models.Booking)}
}

func (r *memoryRepo) Insert(ctx context.Context, booking models.Booking) (string, error) {
	r.insertCnt++
	if r.insertErr != nil {
		return "", r.insertErr
	}
	if _, exists := r.byReference[booking.Reference]; exists {
		return "", bookingRepo.ErrReferenceExists
	}
	r.byReference[booking.Reference] = booking
	return "64b0f1c2a1b2c3d4e5f60718", nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *memoryRepo) FindByReference(ctx context.Context, reference string) (*models.Booking, error) {
	b, ok := r.byReference[reference]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

type memorySagaRepo struct {
	states []string
}

func (r *memorySagaRepo) Upsert(ctx context.Context, saga models.BookingSaga) error {
	r.states = append(r.states, saga.State)
	return nil
}

func (r *memorySagaRepo) FindByID(ctx context.Context, id string) (*models.BookingSaga, error) {
	return nil, errors.New("not found")
}

func (r *memorySagaRepo) FindStalled(ctx context.Context, olderThan time.Duration) ([]models.BookingSaga, error) {
	return nil, nil
}

type mockNotifier struct {
	sendCnt     int
	reservedCnt int
	travelers   []models.Traveler
	err         error
}

func (m *mockNotifier) SendReservationNotice(ctx context.Context, order map[string]interface{}, travelers []models.Traveler) error {
	m.reservedCnt++
	return nil
}

func (m *mockNotifier) SendIssuanceConfirmation(ctx context.Context, order map[string]interface{}, travelers []models.Traveler) error {
	m.sendCnt++
	m.travelers = travelers
	return m.err
}

type mockReconciler struct {
	enqueued []string
}

func (m *mockReconciler) EnqueueReconcile(ctx context.Context, sagaID string) error {
	m.enqueued = append(m.enqueued, sagaID)
	return nil
}

// --- fixtures ---

func testFlight() map[string]interface{} {
	return map[string]interface{}{
		"id":                     "1",
		"validatingAirlineCodes": []interface{}{"BA"},
		"itineraries": []interface{}{
			map[string]interface{}{
				"segments": []interface{}{
					map[string]interface{}{"carrierCode": "BA", "number": "75"},
				},
			},
		},
		"price": map[string]interface{}{"currency": "NGN", "grandTotal": "1534200.00"},
	}
}

func testTravelers() []models.Traveler {
	return []models.Traveler{
		{
			ID:   "1",
			Name: models.TravelerName{FirstName: "Ada", LastName: "Obi"},
			Contact: models.TravelerContact{
				EmailAddress: "ada.obi@example.com",
			},
		},
		{
			ID:   "2",
			Name: models.TravelerName{FirstName: "Emeka", LastName: "Obi"},
		},
	}
}

func testPayload(reference string) models.BookingPayload {
	return models.BookingPayload{
		Flight:           testFlight(),
		LittleFlightInfo: map[string]interface{}{"route": "LOS-LHR"},
		Travelers:        testTravelers(),
		Reference:        reference,
	}
}

type fixture struct {
	svc        *DefaultTicketService
	carrier    *mockCarrier
	gateway    *mockGateway
	repo       *memoryRepo
	sagaRepo   *memorySagaRepo
	notifier   *mockNotifier
	reconciler *mockReconciler
}

func newFixture() *fixture {
	f := &fixture{
		carrier: &mockCarrier{
			reserveOrder: &carrier.Order{
				ID:  "eJzTd9f3d",
				Raw: map[string]interface{}{"data": map[string]interface{}{"id": "eJzTd9f3d"}},
			},
		},
		gateway:    &mockGateway{status: "success"},
		repo:       newMemoryRepo(),
		sagaRepo:   &memorySagaRepo{},
		notifier:   &mockNotifier{},
		reconciler: &mockReconciler{},
	}
	f.svc = &DefaultTicketService{
		Carrier:     f.carrier,
		Tokens:      stubTokens{},
		Gateway:     f.gateway,
		Commissions: commission.NewTable(map[string]float64{"BA": 12}),
		Repo:        f.repo,
		SagaRepo:    f.sagaRepo,
		Notifier:    f.notifier,
		Reconciler:  f.reconciler,
		Logger:      zap.NewNop(),
	}
	return f
}

// --- tests ---

func TestIssueTicketHappyPath(t *testing.T) {
	f := newFixture()

	result, err := f.svc.IssueTicket(context.Background(), testPayload("ref-789"))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "ref-789", result.Reference)
	assert.NotEmpty(t, result.BookingID)

	// Exactly one booking exists for the reference.
	assert.Equal(t, 1, f.repo.insertCnt)
	stored, err := f.repo.FindByReference(context.Background(), "ref-789")
	require.NoError(t, err)
	assert.Equal(t, "ref-789", stored.Reference)
	assert.Len(t, stored.Travelers, 2)
	assert.NotNil(t, stored.TransactionResponse)

	// One carrier flow, one notification.
	assert.Equal(t, 1, f.carrier.reserveCnt)
	assert.Equal(t, 1, f.carrier.commissionCnt)
	assert.Equal(t, float64(12), f.carrier.commissionPct)
	assert.Equal(t, 1, f.carrier.issueCnt)
	assert.Equal(t, 1, f.notifier.sendCnt)
	assert.Len(t, f.notifier.travelers, 2)

	assert.Empty(t, f.reconciler.enqueued)
	assert.Equal(t, models.SagaStateDone, f.sagaRepo.states[len(f.sagaRepo.states)-1])
}

func TestIssueTicketPaymentFailed(t *testing.T) {
	f := newFixture()
	f.gateway.status = "failed"

	_, err := f.svc.IssueTicket(context.Background(), testPayload("ref-123"))
	require.ErrorIs(t, err, ErrPaymentNotSuccessful)

	// The saga aborted before any carrier call or write.
	assert.Equal(t, 0, f.carrier.reserveCnt)
	assert.Equal(t, 0, f.carrier.issueCnt)
	assert.Equal(t, 0, f.repo.insertCnt)
	_, findErr := f.repo.FindByReference(context.Background(), "ref-123")
	assert.ErrorIs(t, findErr, bookingRepo.ErrBookingNotFound)
}

func TestIssueTicketDuplicateReference(t *testing.T) {
	f := newFixture()
	f.repo.byReference["ref-dup"] = models.Booking{Reference: "ref-dup"}

	_, err := f.svc.IssueTicket(context.Background(), testPayload("ref-dup"))
	require.ErrorIs(t, err, ErrDuplicateReference)

	// No carrier mutation happened.
	assert.Equal(t, 0, f.carrier.reserveCnt)
	assert.Equal(t, 0, f.carrier.commissionCnt)
	assert.Equal(t, 0, f.carrier.issueCnt)
	assert.Equal(t, 0, f.repo.insertCnt)
}

func TestIssueTicketReservationWithoutOrderID(t *testing.T) {
	f := newFixture()
	f.carrier.reserveOrder = &carrier.Order{ID: "", Raw: map[string]interface{}{}}

	_, err := f.svc.IssueTicket(context.Background(), testPayload("ref-456"))
	require.ErrorIs(t, err, ErrReservationFailed)
	assert.Contains(t, err.Error(), "unable to reserve flight booking")

	assert.Equal(t, 1, f.carrier.reserveCnt)
	assert.Equal(t, 0, f.carrier.issueCnt)
	assert.Equal(t, 0, f.repo.insertCnt)
	assert.Equal(t, 0, f.notifier.sendCnt)
}

func TestIssueTicketIssueFailureEnqueuesReconcile(t *testing.T) {
	f := newFixture()
	f.carrier.issueErr = &carrier.APIError{StatusCode: 502}

	_, err := f.svc.IssueTicket(context.Background(), testPayload("ref-321"))
	require.Error(t, err)

	// Reservation happened but nothing was persisted; the orphan is
	// handed to the reconciler and the traveler is told the
	// reservation exists.
	assert.Equal(t, 1, f.carrier.reserveCnt)
	assert.Equal(t, 0, f.repo.insertCnt)
	assert.Len(t, f.reconciler.enqueued, 1)
	assert.Equal(t, 1, f.notifier.reservedCnt)
	assert.Equal(t, 0, f.notifier.sendCnt)
}

func TestIssueTicketCommissionFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.svc.Carrier = &commissionFailingCarrier{
		mockCarrier: f.carrier,
		err:         &carrier.APIError{StatusCode: 422},
	}

	result, err := f.svc.IssueTicket(context.Background(), testPayload("ref-654"))
	require.NoError(t, err)
	require.NotNil(t, result)

	// The run finished despite the rejected commission patch.
	assert.Equal(t, 1, f.carrier.commissionCnt)
	assert.Equal(t, 1, f.carrier.issueCnt)
	assert.Equal(t, 1, f.repo.insertCnt)
}

type commissionFailingCarrier struct {
	*mockCarrier
	err error
}

func (c *commissionFailingCarrier) ApplyCommission(ctx context.Context, orderID string, payload map[string]interface{}, token string) error {
	c.commissionCnt++
	return c.err
}

func TestIssueTicketPersistRaceMapsToDuplicate(t *testing.T) {
	f := newFixture()
	f.repo.insertErr = bookingRepo.ErrReferenceExists

	_, err := f.svc.IssueTicket(context.Background(), testPayload("ref-race"))
	require.ErrorIs(t, err, ErrDuplicateReference)

	// The ticket was issued before the insert lost the race, so the
	// run is flagged for reconciliation.
	assert.Equal(t, 1, f.carrier.issueCnt)
	assert.Len(t, f.reconciler.enqueued, 1)
	assert.Equal(t, 0, f.notifier.sendCnt)
}

func TestIssueTicketValidation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name    string
		payload models.BookingPayload
	}{
		{name: "missing reference", payload: models.BookingPayload{
			Flight:    testFlight(),
			Travelers: testTravelers(),
		}},
		{name: "missing flight", payload: models.BookingPayload{
			Reference: "ref-1",
			Travelers: testTravelers(),
		}},
		{name: "missing travelers", payload: models.BookingPayload{
			Reference: "ref-1",
			Flight:    testFlight(),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.IssueTicket(context.Background(), tt.payload)
			require.Error(t, err)

			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	// Validation failures never touch an external system.
	assert.Equal(t, 0, f.gateway.verifyCnt)
	assert.Equal(t, 0, f.carrier.reserveCnt)
}
