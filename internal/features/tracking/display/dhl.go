package display

import (
	"encoding/json"
	"fmt"
	"strings"

	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/dutchdate"

	"go.uber.org/zap"
)

var dhlLabels = map[string]string{
	"Sender":              "Afzender",
	"Receiver":            "Ontvanger",
	"Destination":         "Bestemming",
	"Destination Address": "Bestemmingsadres",
	"Shipper Name":        "Verzender",
	"Type":                "Type",
	"Map":                 "Kaart",
	"Opening Hours":       "Open",
	"Closed":              "Gesloten",
	"Dimensions":          "Afmetingen",
	"Weight":              "Gewicht",
}

var dhlConfig = []entry{
	{label: "Sender", path: "shipper", kind: "person"},
	{label: "Receiver", path: "receiver", kind: "person"},
	{label: "Destination", path: "destination.name"},
	{label: "Destination Address", path: "destination.address", kind: "address"},
	{label: "Type", path: "destination.type"},
	{label: "Map", path: "events", kind: "map_link"},
	{label: "Opening Hours", path: "destination.openingTimes", kind: "opening_hours_dhl"},
	{label: "Closed", path: "destination.closurePeriods", kind: "closure_periods"},
	{label: "Dimensions", path: "length", kind: "dimensions_dhl"},
	{label: "Weight", path: "weight", kind: "weight_dhl"},
}

// DhlHelper renders the DHL detail view from the stored raw shipment.
type DhlHelper struct {
	pkg     *domain.TrackingResult
	details map[string]interface{}
	logger  *zap.Logger
}

// NewDhlHelper creates a DhlHelper for the given package. The raw payload is
// a JSON array; the first shipment carries all details.
func NewDhlHelper(pkg *domain.TrackingResult) *DhlHelper {
	helper := &DhlHelper{
		pkg:     pkg,
		details: map[string]interface{}{},
		logger:  logger.Named("display"),
	}

	var shipments []map[string]interface{}
	if err := json.Unmarshal([]byte(pkg.RawResponse), &shipments); err == nil && len(shipments) > 0 {
		helper.details = shipments[0]
	}
	return helper
}

// DisplayData builds the full display payload.
func (h *DhlHelper) DisplayData() *Data {
	data := baseData(h.pkg)
	data.TrackingLink = h.trackingLink()
	data.FormattedDetails = h.formatDetails()
	return data
}

func (h *DhlHelper) trackingLink() string {
	postalCode := str(lookup(h.details, "destination.address.postalCode"))
	return fmt.Sprintf("https://www.dhlparcel.nl/nl/volg-uw-zending-0?tt=%s&pc=%s", h.pkg.TrackingCode, postalCode)
}

func (h *DhlHelper) formatDetails() []Field {
	formatted := []Field{}

	if status := h.statusBox(); status != "" {
		formatted = append(formatted, Field{Label: "Status", Value: status})
	}

	for _, spec := range dhlConfig {
		value := h.formatEntry(spec)
		if value == "" || spec.hidden {
			continue
		}
		label := spec.label
		if translated, ok := dhlLabels[label]; ok {
			label = translated
		}
		formatted = append(formatted, Field{Label: label, Value: value})
	}

	return dropRedundantDestination(formatted)
}

// statusBox renders the highlighted status block: the delivery timestamp once
// delivered, otherwise the planned delivery window when DHL announced one.
func (h *DhlHelper) statusBox() string {
	if delivered := str(h.details["deliveredAt"]); delivered != "" {
		return fmt.Sprintf("<div class=\"delivered-box\"><h4>Bezorgd</h4><p>%s</p></div>", dutchdate.Format(delivered))
	}

	events, _ := h.details["events"].([]interface{})
	for _, raw := range events {
		event, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if str(event["status"]) != "INFORMATION_ON_DELIVERY_TRANSMITTED" {
			continue
		}
		if eta := str(event["plannedDeliveryTimeframe"]); eta != "" {
			return fmt.Sprintf(`<div class="detail-box eta"><div class="detail-box-label">Geplande bezorging</div><div class="detail-box-value">%s</div></div>`, eta)
		}
	}
	return ""
}

func (h *DhlHelper) formatEntry(spec entry) string {
	value := lookup(h.details, spec.path)
	if value == nil {
		return ""
	}

	switch spec.kind {
	case "":
		return str(value)
	case "person":
		return h.formatPerson(spec.path, value)
	case "address":
		addr, ok := value.(map[string]interface{})
		if !ok {
			return ""
		}
		return strings.Join(formatAddress(addr), ", ")
	case "map_link":
		return h.formatMapLink()
	case "opening_hours_dhl":
		return h.formatOpeningHours(value)
	case "closure_periods":
		return h.formatClosurePeriods(value)
	case "dimensions_dhl":
		return h.formatDimensions()
	case "weight_dhl":
		if weight, ok := num(value); ok {
			return fmt.Sprintf("%.2f kg", weight)
		}
		return ""
	default:
		h.logger.Debug("Unknown display field type",
			zap.String("type", spec.kind),
			zap.String("label", spec.label),
		)
		return ""
	}
}

// formatPerson renders "name, company, street 1, 1234AB Town" from a DHL
// party object.
func (h *DhlHelper) formatPerson(path string, value interface{}) string {
	person, ok := value.(map[string]interface{})
	if !ok {
		return ""
	}

	parts := []string{}
	for _, name := range []string{str(person["name"]), str(person["companyName"])} {
		if name != "" {
			parts = append(parts, name)
		}
	}
	if addr, ok := lookup(h.details, path+".address").(map[string]interface{}); ok {
		parts = append(parts, formatAddress(addr)...)
	}
	return strings.Join(parts, ", ")
}

// formatMapLink takes the first event carrying a geo location. Coordinates
// default to 0 when no event has one.
func (h *DhlHelper) formatMapLink() string {
	var lat, lon interface{} = 0.0, 0.0

	events, _ := h.details["events"].([]interface{})
	for _, raw := range events {
		event, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		geo, ok := event["geoLocation"].(map[string]interface{})
		if !ok {
			continue
		}
		if geo["latitude"] != nil && geo["longitude"] != nil {
			lat, lon = geo["latitude"], geo["longitude"]
			break
		}
	}
	return mapLink(lat, lon)
}

func (h *DhlHelper) formatOpeningHours(value interface{}) string {
	days, ok := value.([]interface{})
	if !ok {
		return ""
	}

	weekdays := []string{"ma", "di", "wo", "do", "vr", "za", "zo"}
	lines := []string{}
	for _, raw := range days {
		day, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		index, ok := num(day["weekDay"])
		if !ok || index < 1 || index > 7 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s - %s", weekdays[int(index)-1], str(day["timeFrom"]), str(day["timeTo"])))
	}
	return strings.Join(lines, "<br>")
}

func (h *DhlHelper) formatClosurePeriods(value interface{}) string {
	periods, ok := value.([]interface{})
	if !ok {
		return ""
	}

	lines := []string{}
	for _, raw := range periods {
		period, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s - %s", str(period["fromDate"]), str(period["toDate"])))
	}
	return strings.Join(lines, "<br>")
}

func (h *DhlHelper) formatDimensions() string {
	length, okL := num(h.details["length"])
	width, okW := num(h.details["width"])
	height, okH := num(h.details["height"])
	if !okL || !okW || !okH || length <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%dx%d", int(length), int(width), int(height))
}

// dropRedundantDestination removes the destination block when the receiver
// line already contains the destination address.
func dropRedundantDestination(fields []Field) []Field {
	var receiver, destinationAddress string
	for _, field := range fields {
		switch field.Label {
		case "Ontvanger":
			receiver = field.Value
		case "Bestemmingsadres":
			destinationAddress = field.Value
		}
	}
	if receiver == "" || destinationAddress == "" || !strings.Contains(receiver, destinationAddress) {
		return fields
	}

	kept := fields[:0]
	for _, field := range fields {
		if field.Label == "Bestemming" {
			continue
		}
		kept = append(kept, field)
	}
	return kept
}
