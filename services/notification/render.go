package notification

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// segmentView is one itinerary segment flattened for the templates.
type segmentView struct {
	CarrierCode      string
	FlightNumber     string
	DepartureCode    string
	DepartureAirport string
	DepartureAt      string
	ArrivalCode      string
	ArrivalAirport   string
	ArrivalAt        string
}

type orderView struct {
	OrderID    string
	Amount     string
	Segments   []segmentView
	Passengers []string
}

const reservedTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Flight Booking Reserved</h2>
  <p>Your flight reservation <strong>{{.OrderID}}</strong> has been created and is awaiting ticketing.</p>
  <table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
    <tr><th>Flight</th><th>From</th><th>Departs</th><th>To</th><th>Arrives</th></tr>
    {{range .Segments}}
    <tr>
      <td>{{.CarrierCode}} {{.FlightNumber}}</td>
      <td>{{.DepartureCode}} {{.DepartureAirport}}</td>
      <td>{{.DepartureAt}}</td>
      <td>{{.ArrivalCode}} {{.ArrivalAirport}}</td>
      <td>{{.ArrivalAt}}</td>
    </tr>
    {{end}}
  </table>
  <p>Total: <strong>{{.Amount}}</strong></p>
  <p>Passengers: {{range .Passengers}}{{.}} {{end}}</p>
  <p>Thank you for booking with Manzo Travels.</p>
</body>
</html>`

const issuedTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Ticket Issued — Booking Confirmed</h2>
  <p>Your ticket for order <strong>{{.OrderID}}</strong> has been issued. Safe travels!</p>
  <table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
    <tr><th>Flight</th><th>From</th><th>Departs</th><th>To</th><th>Arrives</th></tr>
    {{range .Segments}}
    <tr>
      <td>{{.CarrierCode}} {{.FlightNumber}}</td>
      <td>{{.DepartureCode}} {{.DepartureAirport}}</td>
      <td>{{.DepartureAt}}</td>
      <td>{{.ArrivalCode}} {{.ArrivalAirport}}</td>
      <td>{{.ArrivalAt}}</td>
    </tr>
    {{end}}
  </table>
  <p>Amount paid: <strong>{{.Amount}}</strong></p>
  <p>Passengers: {{range .Passengers}}{{.}} {{end}}</p>
  <p>Thank you for booking with Manzo Travels.</p>
</body>
</html>`

var (
	reservedTmpl = template.Must(template.New("reserved").Parse(reservedTemplate))
	issuedTmpl   = template.Must(template.New("issued").Parse(issuedTemplate))
)

// RenderReservationNotice produces the booking-reserved email body
// from a carrier order document.
func RenderReservationNotice(order map[string]interface{}) (string, error) {
	return render(reservedTmpl, order)
}

// RenderIssuanceConfirmation produces the ticket-issued email body
// from a carrier order document.
func RenderIssuanceConfirmation(order map[string]interface{}) (string, error) {
	return render(issuedTmpl, order)
}

func render(tmpl *template.Template, order map[string]interface{}) (string, error) {
	view := buildOrderView(order)
	var sb strings.Builder
	if err := tmpl.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("failed to render notification: %w", err)
	}
	return sb.String(), nil
}

// buildOrderView walks the order's itineraries and flattens every
// segment. Missing pieces render blank; a notification must never fail
// because the carrier shaped a field differently.
func buildOrderView(order map[string]interface{}) orderView {
	view := orderView{}

	data, _ := order["data"].(map[string]interface{})
	if data == nil {
		return view
	}
	view.OrderID, _ = data["id"].(string)

	offers, _ := data["flightOffers"].([]interface{})
	for _, rawOffer := range offers {
		offer, _ := rawOffer.(map[string]interface{})
		if offer == nil {
			continue
		}
		if view.Amount == "" {
			view.Amount = formatPrice(offer["price"])
		}
		itineraries, _ := offer["itineraries"].([]interface{})
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
				view.Segments = append(view.Segments, buildSegmentView(segment))
			}
		}
	}

	travelers, _ := data["travelers"].([]interface{})
	for _, rawTraveler := range travelers {
		traveler, _ := rawTraveler.(map[string]interface{})
		if traveler == nil {
			continue
		}
		name, _ := traveler["name"].(map[string]interface{})
		if name == nil {
			continue
		}
		first, _ := name["firstName"].(string)
		last, _ := name["lastName"].(string)
		full := strings.TrimSpace(first + " " + last)
		if full != "" {
			view.Passengers = append(view.Passengers, full)
		}
	}

	return view
}

func buildSegmentView(segment map[string]interface{}) segmentView {
	sv := segmentView{}
	sv.CarrierCode, _ = segment["carrierCode"].(string)
	sv.FlightNumber, _ = segment["number"].(string)

	if departure, ok := segment["departure"].(map[string]interface{}); ok {
		sv.DepartureCode, _ = departure["iataCode"].(string)
		sv.DepartureAirport = AirportName(sv.DepartureCode)
		at, _ := departure["at"].(string)
		sv.DepartureAt = formatTime(at)
	}
	if arrival, ok := segment["arrival"].(map[string]interface{}); ok {
		sv.ArrivalCode, _ = arrival["iataCode"].(string)
		sv.ArrivalAirport = AirportName(sv.ArrivalCode)
		at, _ := arrival["at"].(string)
		sv.ArrivalAt = formatTime(at)
	}
	return sv
}

func formatTime(at string) string {
	if at == "" {
		return ""
	}
	parsed, err := time.Parse("2006-01-02T15:04:05", at)
	if err != nil {
		return at
	}
	return parsed.Format("Mon, 02 Jan 2006 15:04")
}

// formatPrice renders a price block as "<currency> <grouped amount>",
// e.g. "NGN 1,234,567.00".
func formatPrice(raw interface{}) string {
	price, _ := raw.(map[string]interface{})
	if price == nil {
		return ""
	}
	currency, _ := price["currency"].(string)
	total, _ := price["grandTotal"].(string)
	if total == "" {
		total, _ = price["total"].(string)
	}

	amount, err := strconv.ParseFloat(total, 64)
	if err != nil {
		return strings.TrimSpace(currency + " " + total)
	}

	printer := message.NewPrinter(language.English)
	grouped := printer.Sprintf("%v", number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	return strings.TrimSpace(currency + " " + grouped)
}
