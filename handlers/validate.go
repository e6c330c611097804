package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joelbobai/Manzo-BE/models"
)

// validateFlightOffersSearchInput checks and sanitizes a one-way or
// round-trip search request. All problems are reported at once.
func validateFlightOffersSearchInput(input models.FlightSearchInput) (models.FlightSearchInput, error) {
	var problems []string

	if input.Passenger.Adults < 1 {
		problems = append(problems, "passenger.adults must be a positive number")
	}
	if input.Passenger.Children < 0 {
		problems = append(problems, "passenger.children must be a non-negative number")
	}
	if input.Passenger.Infants < 0 {
		problems = append(problems, "passenger.infants must be a non-negative number")
	}
	if strings.TrimSpace(input.Passenger.TravelClass) == "" {
		problems = append(problems, "passenger.travelClass is required")
	}

	if len(input.FlightSearch) == 0 {
		problems = append(problems, "flightSearch must be a non-empty array")
	}
	for i, leg := range input.FlightSearch {
		if strings.TrimSpace(leg.ID) == "" {
			problems = append(problems, fmt.Sprintf("flightSearch[%d].id is required", i))
		}
		if strings.TrimSpace(leg.OriginLocationCode) == "" {
			problems = append(problems, fmt.Sprintf("flightSearch[%d].originLocationCode is required", i))
		}
		if strings.TrimSpace(leg.DestinationLocationCode) == "" {
			problems = append(problems, fmt.Sprintf("flightSearch[%d].destinationLocationCode is required", i))
		}
		if strings.TrimSpace(leg.DepartureDateTimeRange) == "" {
			problems = append(problems, fmt.Sprintf("flightSearch[%d].departureDateTimeRange is required", i))
		}
	}

	currency, err := sanitizeCurrency(input.CurrencyCode)
	if err != nil {
		problems = append(problems, err.Error())
	}

	// Round trips must come back after they leave.
	if len(input.FlightSearch) > 1 {
		outbound, okOut := parseSearchDate(strings.TrimSpace(input.FlightSearch[0].DepartureDateTimeRange))
		inbound, okIn := parseSearchDate(strings.TrimSpace(input.FlightSearch[1].DepartureDateTimeRange))
		if okOut && okIn && inbound.Before(outbound) {
			problems = append(problems, "return flight date must be after outbound flight date")
		}
	}

	if len(problems) > 0 {
		return models.FlightSearchInput{}, errors.New(strings.Join(problems, ", "))
	}

	sanitized := models.FlightSearchInput{
		Passenger: models.PassengerCounts{
			Adults:      input.Passenger.Adults,
			Children:    input.Passenger.Children,
			Infants:     input.Passenger.Infants,
			TravelClass: strings.TrimSpace(input.Passenger.TravelClass),
		},
		Flexible:     input.Flexible,
		CurrencyCode: currency,
	}
	for _, leg := range input.FlightSearch {
		sanitized.FlightSearch = append(sanitized.FlightSearch, models.FlightSearchLeg{
			ID:                      strings.TrimSpace(leg.ID),
			OriginLocationCode:      strings.TrimSpace(leg.OriginLocationCode),
			DestinationLocationCode: strings.TrimSpace(leg.DestinationLocationCode),
			DepartureDateTimeRange:  strings.TrimSpace(leg.DepartureDateTimeRange),
		})
	}
	return sanitized, nil
}

// validateMultiCityInput checks and sanitizes a multi-city search,
// whose legs carry the date and cabin individually.
func validateMultiCityInput(input models.FlightSearchInput) (models.FlightSearchInput, error) {
	var problems []string

	if input.Passenger.Adults < 1 {
		problems = append(problems, "passenger.adults must be a positive number")
	}
	if len(input.FlightSearch) == 0 {
		problems = append(problems, "flightSearch must be a non-empty array")
	}
	for i, leg := range input.FlightSearch {
		if strings.TrimSpace(leg.ID) == "" ||
			strings.TrimSpace(leg.OriginLocationCode) == "" ||
			strings.TrimSpace(leg.DestinationLocationCode) == "" ||
			strings.TrimSpace(leg.DepartureDate) == "" {
			problems = append(problems, fmt.Sprintf("flightSearch[%d] has empty fields", i))
		}
	}

	currency, err := sanitizeCurrency(input.CurrencyCode)
	if err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return models.FlightSearchInput{}, errors.New(strings.Join(problems, ", "))
	}

	sanitized := models.FlightSearchInput{
		Passenger:    input.Passenger,
		CurrencyCode: currency,
	}
	for _, leg := range input.FlightSearch {
		sanitized.FlightSearch = append(sanitized.FlightSearch, models.FlightSearchLeg{
			ID:                      strings.TrimSpace(leg.ID),
			OriginLocationCode:      strings.TrimSpace(leg.OriginLocationCode),
			DestinationLocationCode: strings.TrimSpace(leg.DestinationLocationCode),
			DepartureDate:           strings.TrimSpace(leg.DepartureDate),
			TripClass:               strings.TrimSpace(leg.TripClass),
		})
	}
	return sanitized, nil
}

// sanitizeCurrency upper-cases a provided currency code and defaults
// to NGN when absent.
func sanitizeCurrency(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if code != "" && trimmed == "" {
		return "", errors.New("currencyCode must be a non-empty string")
	}
	if trimmed == "" {
		return "NGN", nil
	}
	return strings.ToUpper(trimmed), nil
}
