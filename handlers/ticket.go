package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	bookingRepo "github.com/joelbobai/Manzo-BE/database/repository/booking"
	"github.com/joelbobai/Manzo-BE/models"
	"github.com/joelbobai/Manzo-BE/services/booking"
	"github.com/joelbobai/Manzo-BE/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IssueTicket handles POST /issueTicket. The booking payload arrives
// as a single symmetrically-encrypted blob; everything after
// decryption is the booking saga.
func (h *FlightHandler) IssueTicket(c *gin.Context) {
	var input struct {
		HashedData string `json:"hashedData"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if input.HashedData == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "hashedData is required")
		return
	}

	plaintext, err := utils.DecryptPayload(input.HashedData, h.sharedKey)
	if err != nil {
		// Deliberately vague: a decryption failure is either a client
		// bug or tampering, and neither deserves detail.
		h.logger.Warn("issue-ticket payload decryption failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "invalid booking payload", "")
		return
	}

	var payload models.BookingPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking payload", "")
		return
	}

	result, err := h.tickets.IssueTicket(c.Request.Context(), payload)
	if err != nil {
		h.respondSagaError(c, payload.Reference, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreatedIssuanceBooked handles POST /createdIssuanceBooked: it
// returns the stored booking document for a booking id.
func (h *FlightHandler) CreatedIssuanceBooked(c *gin.Context) {
	var input struct {
		BookingID string `json:"bookingId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if input.BookingID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Empty bookingId input field!", "")
		return
	}

	record, err := h.tickets.BookingByID(c.Request.Context(), input.BookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrInvalidBookingID):
			utils.JSONError(c, http.StatusBadRequest, "Invalid bookingId format!", "")
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, "Issuance not found!", "")
		default:
			h.logger.Error("failed to fetch issuance", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Internal server error", "")
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// respondSagaError maps saga failures onto the outward surface.
// Validation is descriptive; everything else collapses into a terse
// failure so upstream payloads never leak.
func (h *FlightHandler) respondSagaError(c *gin.Context, reference string, err error) {
	var validationErr *booking.ValidationError
	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "invalid booking payload", validationErr.Message)
	case errors.Is(err, booking.ErrPaymentNotSuccessful):
		utils.JSONError(c, http.StatusPaymentRequired, "Payment not successful", "")
	case errors.Is(err, booking.ErrDuplicateReference):
		utils.JSONError(c, http.StatusConflict, "Duplicate payment reference", "")
	default:
		h.logger.Error("booking failed",
			zap.String("reference", reference),
			zap.Error(err),
		)
		utils.JSONError(c, http.StatusBadGateway, "Unable to complete booking", "")
	}
}
