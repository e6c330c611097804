package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TravelerName carries the name parts required by the carrier.
type TravelerName struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
}

// Phone is a traveler contact number with its country calling code.
type Phone struct {
	DeviceType         string `bson:"deviceType" json:"deviceType"`
	CountryCallingCode string `bson:"countryCallingCode" json:"countryCallingCode"`
	Number             string `bson:"number" json:"number"`
}

// TravelerContact holds the contact details attached to a traveler.
type TravelerContact struct {
	EmailAddress string  `bson:"emailAddress" json:"emailAddress"`
	Phones       []Phone `bson:"phones" json:"phones"`
}

// TravelerDocument is an identity document in the carrier's format.
type TravelerDocument struct {
	DocumentType     string `bson:"documentType" json:"documentType"`
	Number           string `bson:"number" json:"number"`
	ExpiryDate       string `bson:"expiryDate" json:"expiryDate"`
	IssuanceCountry  string `bson:"issuanceCountry" json:"issuanceCountry"`
	Nationality      string `bson:"nationality" json:"nationality"`
	BirthPlace       string `bson:"birthPlace,omitempty" json:"birthPlace,omitempty"`
	IssuanceLocation string `bson:"issuanceLocation,omitempty" json:"issuanceLocation,omitempty"`
	Holder           bool   `bson:"holder" json:"holder"`
}

// Traveler is one passenger on a booking, in the shape the carrier's
// order endpoint expects.
type Traveler struct {
	ID           string             `bson:"id" json:"id"`
	DateOfBirth  string             `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender       string             `bson:"gender" json:"gender"`
	TravelerType string             `bson:"travelerType,omitempty" json:"travelerType,omitempty"`
	Name         TravelerName       `bson:"name" json:"name"`
	Contact      TravelerContact    `bson:"contact" json:"contact"`
	Documents    []TravelerDocument `bson:"documents,omitempty" json:"documents,omitempty"`
}

// BookingPayload is the decrypted issue-ticket request body. It lives
// only for the duration of one booking run.
type BookingPayload struct {
	// Flight is the selected offer exactly as the carrier returned it.
	Flight map[string]interface{} `json:"flight"`
	// LittleFlightInfo is display metadata captured at search time.
	LittleFlightInfo map[string]interface{} `json:"littleFlightInfo"`
	Travelers        []Traveler             `json:"travelers"`
	// Reference is the payment reference issued by the client-side
	// payment flow. At most one booking may exist per reference.
	Reference string `json:"reference"`
}

// Booking is the persisted record of a completed booking run. The bson
// keys mirror the historical document layout, including the
// "littelFlightInfo" spelling, so existing records stay readable.
type Booking struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	// FlightBooked is the carrier's final issued-order document.
	FlightBooked map[string]interface{} `bson:"FlightBooked" json:"FlightBooked"`
	// MFlight is the original flight offer the order was created from.
	MFlight          map[string]interface{} `bson:"MFlight" json:"MFlight"`
	LittleFlightInfo map[string]interface{} `bson:"littelFlightInfo" json:"littelFlightInfo"`
	Reference        string                 `bson:"reference" json:"reference"`
	Travelers        []Traveler             `bson:"travelers" json:"travelers"`
	// TransactionResponse is the gateway's verify response, verbatim.
	TransactionResponse map[string]interface{} `bson:"transactionResponse" json:"transactionResponse"`
	Date                time.Time              `bson:"date" json:"date"`
	CreatedAt           time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// Saga states recorded while a booking run is in flight.
const (
	SagaStateVerifyPayment   = "verify_payment"
	SagaStateCheckDuplicate  = "check_duplicate"
	SagaStateReserve         = "reserve"
	SagaStateApplyCommission = "apply_commission"
	SagaStateIssue           = "issue"
	SagaStatePersist         = "persist"
	SagaStateDone            = "done"
	SagaStateFailed          = "failed"
)

// BookingSaga tracks the progress of one booking run so that partial
// failures (a reservation with no ticket, or a ticket with no local
// record) can be found and reconciled later.
type BookingSaga struct {
	ID        string    `bson:"id" json:"id"`
	Reference string    `bson:"reference" json:"reference"`
	State     string    `bson:"state" json:"state"`
	// OrderID is set once the carrier creates a reservation.
	OrderID   string    `bson:"orderId,omitempty" json:"orderId,omitempty"`
	// FailedAt is the state the run was in when it aborted.
	FailedAt  string    `bson:"failedAt,omitempty" json:"failedAt,omitempty"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
