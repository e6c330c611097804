package routes

import (
	"net/http"
	"time"

	"github.com/joelbobai/Manzo-BE/handlers"
	"github.com/joelbobai/Manzo-BE/services/carrier"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// allowedOrigins lists the web clients permitted to call the API.
var allowedOrigins = []string{
	"http://localhost:3000",
	"https://manzotravels.com",
	"https://www.manzotravels.com",
	"https://manzo.ng",
	"https://www.manzo.ng",
	"https://manzo.com.ng",
	"https://www.manzo.com.ng",
}

// RegisterFlightRoutes registers the flight search, pricing and
// ticketing endpoints. Every route in the group needs a valid carrier
// token, so the group middleware warms the cached token before the
// handler runs.
func RegisterFlightRoutes(r *gin.Engine, fh *handlers.FlightHandler, tokens carrier.TokenProvider) {
	api := r.Group("/api/v1/flights")
	api.Use(ensureCarrierToken(tokens))
	{
		api.POST("/flightOffersSearch", fh.FlightOffersSearch)
		api.POST("/flightOffersSearchMultiCity", fh.FlightOffersSearchMultiCity)
		api.POST("/flightPriceLookup", fh.FlightPriceLookup)
		api.POST("/issueTicket", fh.IssueTicket)
		api.POST("/createdIssuanceBooked", fh.CreatedIssuanceBooked)
	}
}

// RegisterHealthRoute registers the health check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.Health)
}

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *gin.Engine, fh *handlers.FlightHandler, tokens carrier.TokenProvider) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterFlightRoutes(r, fh, tokens)
	RegisterHealthRoute(r)
}

// ensureCarrierToken rejects requests early when no carrier token can
// be obtained, instead of letting every downstream call fail.
func ensureCarrierToken(tokens carrier.TokenProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := tokens.Token(c.Request.Context()); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Flight service temporarily unavailable"})
			return
		}
		c.Next()
	}
}
