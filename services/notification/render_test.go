package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			"id": "eJzTd9f3NjIJdzUGAAp%2fAiY=",
			"flightOffers": []interface{}{
				map[string]interface{}{
					"price": map[string]interface{}{
						"currency":   "NGN",
						"grandTotal": "1234567.00",
					},
					"itineraries": []interface{}{
						map[string]interface{}{
							"segments": []interface{}{
								map[string]interface{}{
									"carrierCode": "BA",
									"number":      "74",
									"departure": map[string]interface{}{
										"iataCode": "LOS",
										"at":       "2026-09-14T22:45:00",
									},
									"arrival": map[string]interface{}{
										"iataCode": "LHR",
										"at":       "2026-09-15T05:55:00",
									},
								},
							},
						},
						map[string]interface{}{
							"segments": []interface{}{
								map[string]interface{}{
									"carrierCode": "BA",
									"number":      "75",
									"departure": map[string]interface{}{
										"iataCode": "LHR",
										"at":       "2026-09-28T11:10:00",
									},
									"arrival": map[string]interface{}{
										"iataCode": "LOS",
										"at":       "2026-09-28T17:50:00",
									},
								},
							},
						},
					},
				},
			},
			"travelers": []interface{}{
				map[string]interface{}{
					"name": map[string]interface{}{
						"firstName": "ADA",
						"lastName":  "OBI",
					},
				},
			},
		},
	}
}

func TestRenderIssuanceConfirmation(t *testing.T) {
	body, err := RenderIssuanceConfirmation(sampleOrder())
	require.NoError(t, err)

	assert.Contains(t, body, "Ticket Issued")
	assert.Contains(t, body, "BA 74")
	assert.Contains(t, body, "BA 75")
	assert.Contains(t, body, "LOS")
	assert.Contains(t, body, "LHR")
	assert.Contains(t, body, "ADA OBI")
	// Amount grouped with a thousands separator.
	assert.Contains(t, body, "NGN 1,234,567.00")
}

func TestRenderReservationNotice(t *testing.T) {
	body, err := RenderReservationNotice(sampleOrder())
	require.NoError(t, err)

	assert.Contains(t, body, "Flight Booking Reserved")
	assert.Contains(t, body, "awaiting ticketing")
}

func TestBuildOrderViewSurvivesSparseDocuments(t *testing.T) {
	view := buildOrderView(map[string]interface{}{})
	assert.Empty(t, view.OrderID)
	assert.Empty(t, view.Segments)

	// An order with an unexpected shape must still render.
	body, err := RenderIssuanceConfirmation(map[string]interface{}{
		"data": map[string]interface{}{
			"id":           "ABC123",
			"flightOffers": "not-a-list",
		},
	})
	require.NoError(t, err)
	assert.Contains(t, body, "ABC123")
}

func TestAirportNameMissFallsBackToBlank(t *testing.T) {
	assert.NotEmpty(t, AirportName("LOS"))
	assert.Empty(t, AirportName("XXX"))
}

func TestFormatTimePassesThroughUnparsedValues(t *testing.T) {
	assert.Equal(t, "", formatTime(""))
	assert.Equal(t, "sometime", formatTime("sometime"))
	assert.Equal(t, "Mon, 14 Sep 2026 22:45", formatTime("2026-09-14T22:45:00"))
}
