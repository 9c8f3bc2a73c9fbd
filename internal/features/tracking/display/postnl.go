package display

import (
	"encoding/json"
	"fmt"
	"strings"

	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/domain"

	"go.uber.org/zap"
)

var postnlLabels = map[string]string{
	"Recipient":  "Ontvanger",
	"Sender":     "Afzender",
	"Weight":     "Gewicht",
	"Dimensions": "Afmetingen",
}

var postnlConfig = []entry{
	{label: "Recipient", path: "recipient", kind: "person"},
	{label: "Sender", path: "sender", kind: "person"},
	{label: "Weight", path: "details.dimensions.weight", kind: "weight"},
	{label: "Dimensions", path: "details.dimensions", kind: "dimensions"},
	{label: "Retail Location", path: "retailDeliveryLocation.address", kind: "address"},
	{label: "Map Link", path: "retailDeliveryLocation.coordinate", kind: "map_link"},
	{label: "Opening Hours", path: "retailDeliveryLocation.businessHours", kind: "opening_hours"},
}

// PostnlHelper renders the PostNL detail view from the stored raw colli.
type PostnlHelper struct {
	pkg     *domain.TrackingResult
	details map[string]interface{}
	logger  *zap.Logger
}

// NewPostnlHelper creates a PostnlHelper for the given package. Details live
// under colli keyed by tracking code in the raw payload.
func NewPostnlHelper(pkg *domain.TrackingResult) *PostnlHelper {
	helper := &PostnlHelper{
		pkg:     pkg,
		details: map[string]interface{}{},
		logger:  logger.Named("display"),
	}

	var envelope map[string]interface{}
	if err := json.Unmarshal([]byte(pkg.RawResponse), &envelope); err == nil {
		if colli, ok := lookup(envelope, "colli."+pkg.TrackingCode).(map[string]interface{}); ok {
			helper.details = colli
		}
	}
	return helper
}

// DisplayData builds the full display payload.
func (h *PostnlHelper) DisplayData() *Data {
	data := baseData(h.pkg)
	data.TrackingLink = h.trackingLink()
	data.FormattedDetails = h.formatDetails()
	return data
}

func (h *PostnlHelper) trackingLink() string {
	country := str(lookup(h.details, "recipient.address.country"))
	if country == "" {
		country = "NL"
	}
	postalCode := str(lookup(h.details, "recipient.address.postalCode"))
	return fmt.Sprintf("https://jouw.postnl.nl/track-and-trace/%s/%s/%s", h.pkg.TrackingCode, country, postalCode)
}

func (h *PostnlHelper) formatDetails() []Field {
	formatted := []Field{}
	for _, spec := range postnlConfig {
		value := h.formatEntry(spec)
		if value == "" || spec.hidden {
			continue
		}
		label := spec.label
		if translated, ok := postnlLabels[label]; ok {
			label = translated
		}
		formatted = append(formatted, Field{Label: label, Value: value})
	}
	return formatted
}

func (h *PostnlHelper) formatEntry(spec entry) string {
	value := lookup(h.details, spec.path)
	if value == nil {
		return ""
	}

	switch spec.kind {
	case "":
		return str(value)
	case "person":
		return h.formatPerson(spec.path, value)
	case "weight":
		weight, _ := num(value)
		return fmt.Sprintf("%.2f kg", weight/1000)
	case "dimensions":
		return formatPostnlDimensions(value)
	case "address":
		return h.formatRetailAddress(spec, value)
	case "map_link":
		coordinate, ok := value.(map[string]interface{})
		if !ok || coordinate["latitude"] == nil || coordinate["longitude"] == nil {
			return ""
		}
		return mapLink(coordinate["latitude"], coordinate["longitude"])
	case "opening_hours":
		return formatPostnlOpeningHours(value)
	default:
		h.logger.Debug("Unknown display field type",
			zap.String("type", spec.kind),
			zap.String("label", spec.label),
		)
		return ""
	}
}

// formatPerson renders "name, company, street 1, 1234AB Town" from a PostNL
// party object, whose names nest under a names object.
func (h *PostnlHelper) formatPerson(path string, value interface{}) string {
	parts := []string{}
	for _, name := range []string{
		str(lookup(value, "names.personName")),
		str(lookup(value, "names.companyName")),
	} {
		if name != "" {
			parts = append(parts, name)
		}
	}
	if addr, ok := lookup(h.details, path+".address").(map[string]interface{}); ok {
		parts = append(parts, formatAddress(addr)...)
	}
	return strings.Join(parts, ", ")
}

// formatRetailAddress prefixes the pickup point name when PostNL provides one.
func (h *PostnlHelper) formatRetailAddress(spec entry, value interface{}) string {
	addr, ok := value.(map[string]interface{})
	if !ok {
		return ""
	}
	parts := formatAddress(addr)
	if spec.label == "Retail Location" {
		if name := str(lookup(h.details, "retailDeliveryLocation.locationName")); name != "" {
			parts = append([]string{name}, parts...)
		}
	}
	return strings.Join(parts, ", ")
}

func formatPostnlDimensions(value interface{}) string {
	dims, ok := value.(map[string]interface{})
	if !ok {
		return ""
	}
	depth, okD := num(dims["depth"])
	width, okW := num(dims["width"])
	height, okH := num(dims["height"])
	if !okD || !okW || !okH {
		return ""
	}
	return fmt.Sprintf("%dx%dx%d", int(depth), int(width), int(height))
}

// formatPostnlOpeningHours renders business hours per day. PostNL numbers
// days 1 (Monday) through 6 (Saturday) with 0 for Sunday.
func formatPostnlOpeningHours(value interface{}) string {
	days, ok := value.([]interface{})
	if !ok {
		return ""
	}

	dayNames := map[int]string{1: "ma", 2: "di", 3: "wo", 4: "do", 5: "vr", 6: "za", 0: "zo"}
	lines := []string{}
	for _, raw := range days {
		day, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		index, _ := num(day["day"])

		hours := []string{}
		ranges, _ := day["hours"].([]interface{})
		for _, rawRange := range ranges {
			window, ok := rawRange.(map[string]interface{})
			if !ok {
				continue
			}
			hours = append(hours, fmt.Sprintf("%s - %s", str(window["from"]), str(window["to"])))
		}
		lines = append(lines, fmt.Sprintf("%s: %s", dayNames[int(index)], strings.Join(hours, ", ")))
	}
	return strings.Join(lines, "<br>")
}
