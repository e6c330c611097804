package models

// FlightSearchLeg is one origin/destination pair of an inbound search.
type FlightSearchLeg struct {
	ID                      string `json:"id"`
	OriginLocationCode      string `json:"originLocationCode"`
	DestinationLocationCode string `json:"destinationLocationCode"`
	DepartureDateTimeRange  string `json:"departureDateTimeRange"`
	// Multi-city searches submit the date and cabin per leg.
	DepartureDate string `json:"departureDate"`
	TripClass     string `json:"tripClass"`
}

// PassengerCounts mirrors the passenger block of an inbound search.
type PassengerCounts struct {
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	Infants     int    `json:"infants"`
	TravelClass string `json:"travelClass"`
}

// FlightSearchInput is the inbound flight-offers search body.
type FlightSearchInput struct {
	Passenger    PassengerCounts   `json:"passenger"`
	FlightSearch []FlightSearchLeg `json:"flightSearch"`
	// Flexible, when set, widens the departure date by +/- N days.
	Flexible     string `json:"flexible"`
	CurrencyCode string `json:"currencyCode"`
}

// The structs below build the carrier's flight-offers search request.

type DepartureDateTimeRange struct {
	Date       string `json:"date"`
	DateWindow string `json:"dateWindow,omitempty"`
}

type OriginDestination struct {
	ID                      string                 `json:"id"`
	OriginLocationCode      string                 `json:"originLocationCode"`
	DestinationLocationCode string                 `json:"destinationLocationCode"`
	DepartureDateTimeRange  DepartureDateTimeRange `json:"departureDateTimeRange"`
}

type SearchTraveler struct {
	ID                string   `json:"id"`
	TravelerType      string   `json:"travelerType"`
	FareOptions       []string `json:"fareOptions"`
	AssociatedAdultID string   `json:"associatedAdultId,omitempty"`
}

type CabinRestriction struct {
	Cabin                string   `json:"cabin"`
	Coverage             string   `json:"coverage"`
	OriginDestinationIDs []string `json:"originDestinationIds"`
}

type ConnectionRestriction struct {
	MaxNumberOfConnections int `json:"maxNumberOfConnections"`
}

type FlightFilters struct {
	CabinRestrictions     []CabinRestriction    `json:"cabinRestrictions"`
	ConnectionRestriction ConnectionRestriction `json:"connectionRestriction"`
}

type PricingOptions struct {
	FareType                []string `json:"fareType"`
	IncludedCheckedBagsOnly *bool    `json:"includedCheckedBagsOnly,omitempty"`
}

type AdditionalInformation struct {
	ChargeableCheckedBags bool `json:"chargeableCheckedBags"`
	BrandedFares          bool `json:"brandedFares"`
	FareRules             bool `json:"fareRules"`
}

type SearchCriteria struct {
	PricingOptions               PricingOptions        `json:"pricingOptions"`
	MaxFlightOffers              int                   `json:"maxFlightOffers"`
	AllowAlternativeFareOptions  bool                  `json:"allowAlternativeFareOptions"`
	MaxUpsellOffers              int                   `json:"maxUpsellOffers,omitempty"`
	AdditionalInformation        AdditionalInformation `json:"additionalInformation"`
	FlightFilters                *FlightFilters        `json:"flightFilters,omitempty"`
}

// FlightOffersSearchRequest is the carrier-side search document.
type FlightOffersSearchRequest struct {
	CurrencyCode       string              `json:"currencyCode"`
	OriginDestinations []OriginDestination `json:"originDestinations"`
	Travelers          []SearchTraveler    `json:"travelers"`
	Sources            []string            `json:"sources"`
	SearchCriteria     SearchCriteria      `json:"searchCriteria"`
	// Multi-city requests carry the filters at the top level.
	FlightFilters *FlightFilters `json:"flightFilters,omitempty"`
}
