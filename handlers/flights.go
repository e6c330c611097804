package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/joelbobai/Manzo-BE/models"
	"github.com/joelbobai/Manzo-BE/services/booking"
	"github.com/joelbobai/Manzo-BE/services/carrier"
	"github.com/joelbobai/Manzo-BE/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// FlightHandler serves the flight search, pricing and ticketing
// endpoints.
type FlightHandler struct {
	carrier   carrier.Client
	tokens    carrier.TokenProvider
	tickets   booking.TicketService
	cache     *redis.Client
	sharedKey string
	logger    *zap.Logger
}

// NewFlightHandler wires the flight endpoints.
func NewFlightHandler(
	carrierClient carrier.Client,
	tokens carrier.TokenProvider,
	tickets booking.TicketService,
	cache *redis.Client,
	sharedKey string,
	logger *zap.Logger,
) *FlightHandler {
	return &FlightHandler{
		carrier:   carrierClient,
		tokens:    tokens,
		tickets:   tickets,
		cache:     cache,
		sharedKey: sharedKey,
		logger:    logger,
	}
}

// FlightOffersSearch handles POST /flightOffersSearch.
func (h *FlightHandler) FlightOffersSearch(c *gin.Context) {
	var input models.FlightSearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	sanitized, err := validateFlightOffersSearchInput(input)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid search input", err.Error())
		return
	}

	searchReq := buildSearchRequest(sanitized)

	// Identical searches inside the memoization window share one
	// carrier call.
	cacheKey := searchCacheKey(searchReq)
	if cached, err := h.cache.Get(c.Request.Context(), cacheKey).Result(); err == nil {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	token, err := h.tokens.Token(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to obtain carrier token", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Flight search failed", "")
		return
	}

	offers, err := h.carrier.SearchOffers(c.Request.Context(), searchReq, token)
	if err != nil {
		h.logger.Error("flight offers search failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Flight search failed", "")
		return
	}

	response := gin.H{
		"flightRights":             offers.Data,
		"flightRightsDictionaries": offers.Dictionaries,
	}
	h.memoize(c.Request.Context(), cacheKey, response)
	c.JSON(http.StatusOK, response)
}

// FlightOffersSearchMultiCity handles POST /flightOffersSearchMultiCity.
func (h *FlightHandler) FlightOffersSearchMultiCity(c *gin.Context) {
	var input models.FlightSearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	sanitized, err := validateMultiCityInput(input)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid multi-city search input", err.Error())
		return
	}

	searchReq := buildMultiCityRequest(sanitized)

	token, err := h.tokens.Token(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to obtain carrier token", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Flight search failed", "")
		return
	}

	offers, err := h.carrier.SearchOffersMultiCity(c.Request.Context(), searchReq, token)
	if err != nil {
		h.logger.Error("multi-city flight search failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Flight search failed", "")
		return
	}

	c.JSON(http.StatusOK, offers)
}

// FlightPriceLookup handles POST /flightPriceLookup. The selected
// offers are forwarded to the carrier's pricing endpoint unchanged.
func (h *FlightHandler) FlightPriceLookup(c *gin.Context) {
	var offers map[string]interface{}
	if err := c.ShouldBindJSON(&offers); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if len(offers) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "empty pricing payload")
		return
	}

	token, err := h.tokens.Token(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to obtain carrier token", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Flight pricing failed", "")
		return
	}

	priced, err := h.carrier.PriceOffers(c.Request.Context(), offers, token)
	if err != nil {
		h.logger.Error("flight price lookup failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Flight pricing failed", "")
		return
	}

	c.JSON(http.StatusOK, priced)
}

func (h *FlightHandler) memoize(ctx context.Context, key string, response gin.H) {
	encoded, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, key, encoded, utils.SearchCacheTTL).Err(); err != nil {
		h.logger.Debug("failed to memoize search result", zap.Error(err))
	}
}

func searchCacheKey(req models.FlightOffersSearchRequest) string {
	encoded, _ := json.Marshal(req)
	sum := sha256.Sum256(encoded)
	return utils.SearchCachePrefix + hex.EncodeToString(sum[:])
}

// buildSearchRequest assembles the carrier search document for a
// one-way or round-trip search.
func buildSearchRequest(input models.FlightSearchInput) models.FlightOffersSearchRequest {
	cabinRestrictions := make([]models.CabinRestriction, 0, len(input.FlightSearch))
	originDestinations := make([]models.OriginDestination, 0, len(input.FlightSearch))

	for _, leg := range input.FlightSearch {
		cabinRestrictions = append(cabinRestrictions, models.CabinRestriction{
			Cabin:                input.Passenger.TravelClass,
			Coverage:             "MOST_SEGMENTS",
			OriginDestinationIDs: []string{leg.ID},
		})

		dateRange := models.DepartureDateTimeRange{Date: leg.DepartureDateTimeRange}
		if input.Flexible != "" {
			dateRange.DateWindow = input.Flexible
		}
		originDestinations = append(originDestinations, models.OriginDestination{
			ID:                      leg.ID,
			OriginLocationCode:      leg.OriginLocationCode,
			DestinationLocationCode: leg.DestinationLocationCode,
			DepartureDateTimeRange:  dateRange,
		})
	}

	return models.FlightOffersSearchRequest{
		CurrencyCode:       input.CurrencyCode,
		OriginDestinations: originDestinations,
		Travelers:          buildSearchTravelers(input.Passenger),
		Sources:            []string{"GDS"},
		SearchCriteria: models.SearchCriteria{
			PricingOptions:              models.PricingOptions{FareType: []string{"PUBLISHED"}},
			MaxFlightOffers:             100,
			AllowAlternativeFareOptions: true,
			MaxUpsellOffers:             3,
			AdditionalInformation: models.AdditionalInformation{
				ChargeableCheckedBags: true,
				BrandedFares:          true,
				FareRules:             true,
			},
			FlightFilters: &models.FlightFilters{
				CabinRestrictions:     cabinRestrictions,
				ConnectionRestriction: models.ConnectionRestriction{MaxNumberOfConnections: 2},
			},
		},
	}
}

// buildMultiCityRequest assembles the carrier search document for a
// multi-city search, which carries its filters at the top level and
// allows a larger offer count.
func buildMultiCityRequest(input models.FlightSearchInput) models.FlightOffersSearchRequest {
	falseValue := false
	cabinRestrictions := make([]models.CabinRestriction, 0, len(input.FlightSearch))
	originDestinations := make([]models.OriginDestination, 0, len(input.FlightSearch))

	for _, leg := range input.FlightSearch {
		cabinRestrictions = append(cabinRestrictions, models.CabinRestriction{
			Cabin:                leg.TripClass,
			Coverage:             "MOST_SEGMENTS",
			OriginDestinationIDs: []string{leg.ID},
		})
		originDestinations = append(originDestinations, models.OriginDestination{
			ID:                      leg.ID,
			OriginLocationCode:      leg.OriginLocationCode,
			DestinationLocationCode: leg.DestinationLocationCode,
			DepartureDateTimeRange:  models.DepartureDateTimeRange{Date: leg.DepartureDate},
		})
	}

	return models.FlightOffersSearchRequest{
		CurrencyCode:       input.CurrencyCode,
		OriginDestinations: originDestinations,
		Travelers:          buildSearchTravelers(input.Passenger),
		Sources:            []string{"GDS"},
		SearchCriteria: models.SearchCriteria{
			PricingOptions: models.PricingOptions{
				FareType:                []string{"PUBLISHED"},
				IncludedCheckedBagsOnly: &falseValue,
			},
			MaxFlightOffers:             250,
			AllowAlternativeFareOptions: true,
			AdditionalInformation: models.AdditionalInformation{
				ChargeableCheckedBags: true,
				BrandedFares:          true,
				FareRules:             true,
			},
		},
		FlightFilters: &models.FlightFilters{
			CabinRestrictions:     cabinRestrictions,
			ConnectionRestriction: models.ConnectionRestriction{MaxNumberOfConnections: 2},
		},
	}
}

// buildSearchTravelers expands passenger counts into carrier traveler
// entries. Held infants are associated with the first adult.
func buildSearchTravelers(passenger models.PassengerCounts) []models.SearchTraveler {
	travelers := make([]models.SearchTraveler, 0, passenger.Adults+passenger.Children+passenger.Infants)
	id := 1

	for i := 0; i < passenger.Adults; i++ {
		travelers = append(travelers, models.SearchTraveler{
			ID:           strconv.Itoa(id),
			TravelerType: "ADULT",
			FareOptions:  []string{"STANDARD"},
		})
		id++
	}
	for i := 0; i < passenger.Children; i++ {
		travelers = append(travelers, models.SearchTraveler{
			ID:           strconv.Itoa(id),
			TravelerType: "CHILD",
			FareOptions:  []string{"STANDARD"},
		})
		id++
	}
	for i := 0; i < passenger.Infants; i++ {
		travelers = append(travelers, models.SearchTraveler{
			ID:                strconv.Itoa(id),
			TravelerType:      "HELD_INFANT",
			FareOptions:       []string{"STANDARD"},
			AssociatedAdultID: "1",
		})
		id++
	}
	return travelers
}

// parseSearchDate accepts the inbound departure date format.
func parseSearchDate(value string) (time.Time, bool) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
