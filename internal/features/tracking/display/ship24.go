package display

import (
	"encoding/json"
	"strings"

	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/dutchdate"

	"go.uber.org/zap"
)

var statusMilestoneTranslations = map[string]string{
	"info_received":        "Info ontvangen",
	"in_transit":           "Onderweg",
	"out_for_delivery":     "Bezorger onderweg",
	"failed_attempt":       "Mislukte poging",
	"available_for_pickup": "Beschikbaar voor afhalen",
	"delivered":            "Bezorgd",
	"exception":            "Uitzondering",
	"pending":              "Aangemeld",
}

var statusCategoryDescriptions = map[string]string{
	"data":        "Data-uitwisseling",
	"transit":     "Onderweg",
	"destination": "Bestemming",
	"customs":     "Douane",
	"delivery":    "Bezorging",
	"exception":   "Uitzondering",
}

var statusCodeDescriptions = map[string]string{
	"data_order_created":               "Bezorgopdracht aangemaakt. De bezorgopdracht is elektronisch geregistreerd in het systeem van de koerier.",
	"data_order_cancelled":             "Bezorgopdracht geannuleerd. De bezorgopdracht is geannuleerd in het systeem van de koerier.",
	"data_delivery_proposed":           "Definitieve bezorgmethoden en/of tijdsloten zijn voorgesteld aan de ontvanger en de koerier wacht op feedback.",
	"data_delivery_decided":            "Definitieve bezorgmethoden en/of tijdsloten zijn vastgesteld.",
	"transit_handover":                 "Zending opgehaald of ontvangen door de vervoerder.",
	"transit_origin_country_departure": "Zending vertrokken uit het land van herkomst.",
	"destination_arrival":              "Zending aangekomen in het bestemmingsland.",
	"customs_received":                 "Zending ontvangen door de douane.",
	"customs_exception":                "Uitzondering of vertraging tijdens inklaring bij de douane.",
	"customs_rejected":                 "Zending afgewezen door de douane.",
	"customs_cleared":                  "Zending vrijgegeven door de douane.",
	"delivery_available_for_pickup":    "Zending beschikbaar voor afhalen bij een afhaalpunt of postkantoor.",
	"delivery_out_for_delivery":        "Bezorging van de zending is onderweg.",
	"delivery_attempted":               "Bezorging geprobeerd en niet gelukt.",
	"delivery_exception":               "Probleem tijdens bezorging waardoor aflevering niet mogelijk is.",
	"delivery_refused":                 "Zending geweigerd door de ontvanger.",
	"delivery_delivered":               "Zending bezorgd.",
	"exception_return":                 "Zending niet leverbaar, wordt teruggestuurd of is bezig met terugzending.",
	"exception_lost":                   "Zending verloren door de vervoerder.",
	"exception_discarded":              "Zending vernietigd door de vervoerder.",
}

// TranslateStatusMilestone maps a Ship24 milestone to its Dutch label.
// Unknown milestones pass through untranslated.
func TranslateStatusMilestone(status string) string {
	if translated, ok := statusMilestoneTranslations[status]; ok {
		return translated
	}
	return status
}

// TranslateStatusCategory maps a Ship24 status category to its Dutch label.
func TranslateStatusCategory(category string) string {
	if translated, ok := statusCategoryDescriptions[category]; ok {
		return translated
	}
	return category
}

// TranslateStatusCode maps a detailed Ship24 status code to its Dutch
// description.
func TranslateStatusCode(code string) string {
	if translated, ok := statusCodeDescriptions[code]; ok {
		return translated
	}
	return code
}

var ship24Config = []entry{
	{label: "Statuscategorie", path: "shipment.statusCategory", kind: "statusCategory"},
	{label: "Statuscode", path: "shipment.statusCode", kind: "statusCode"},
	{label: "Oorsprong", path: "shipment.originCountryCode"},
	{label: "Bestemming", path: "shipment.destinationCountryCode"},
	{label: "Afgeleverd", path: "statistics.timestamps.deliveredDatetime", kind: "date"},
	{label: "Chauffeur onderweg", path: "statistics.timestamps.outForDeliveryDatetime", kind: "date"},
	{label: "Ophalen vanaf", path: "statistics.timestamps.availableForPickupDatetime", kind: "date"},
	{label: "Uitzondering", path: "statistics.timestamps.exceptionDatetime", kind: "date"},
	{label: "Mislukte poging", path: "statistics.timestamps.failedAttemptDatetime", kind: "date"},
	{label: "Onderweg", path: "statistics.timestamps.inTransitDatetime", kind: "date"},
	{label: "Info ontvangen", path: "statistics.timestamps.infoReceivedDatetime", kind: "date"},
	{label: "Trackingnummers", path: "shipment.trackingNumbers", kind: "trackingNumbers"},
}

// Ship24Helper renders the Ship24 detail view from the stored raw tracking.
type Ship24Helper struct {
	pkg     *domain.TrackingResult
	details map[string]interface{}
	logger  *zap.Logger
}

// NewShip24Helper creates a Ship24Helper for the given package. Details live
// under data.trackings[0] in the raw payload.
func NewShip24Helper(pkg *domain.TrackingResult) *Ship24Helper {
	helper := &Ship24Helper{
		pkg:    pkg,
		logger: logger.Named("display"),
	}

	var envelope map[string]interface{}
	if err := json.Unmarshal([]byte(pkg.RawResponse), &envelope); err == nil {
		if trackings, ok := lookup(envelope, "data.trackings").([]interface{}); ok && len(trackings) > 0 {
			if tracking, ok := trackings[0].(map[string]interface{}); ok {
				helper.details = tracking
			}
		}
	}
	return helper
}

// DisplayData builds the full display payload. Ship24 is an aggregator
// without a public per-package page, so there is no tracking link.
func (h *Ship24Helper) DisplayData() *Data {
	data := baseData(h.pkg)
	data.FormattedDetails = h.formatDetails()
	return data
}

func (h *Ship24Helper) formatDetails() []Field {
	formatted := []Field{}
	if h.details == nil {
		h.logger.Debug("No Ship24 details available")
		return formatted
	}

	for _, spec := range ship24Config {
		value := h.formatEntry(spec)
		if value == "" || spec.hidden {
			continue
		}
		formatted = append(formatted, Field{Label: spec.label, Value: value})
	}
	return formatted
}

func (h *Ship24Helper) formatEntry(spec entry) string {
	value := lookup(h.details, spec.path)
	if value == nil {
		return ""
	}

	switch spec.kind {
	case "":
		return str(value)
	case "date":
		return dutchdate.Format(str(value))
	case "trackingNumbers":
		return strings.Join(extractTrackingNumbers(value), ", ")
	case "statusCategory":
		return TranslateStatusCategory(str(value))
	case "statusCode":
		return TranslateStatusCode(str(value))
	default:
		h.logger.Debug("Unknown display field type",
			zap.String("type", spec.kind),
			zap.String("label", spec.label),
		)
		return ""
	}
}

// extractTrackingNumbers flattens Ship24's trackingNumbers list, which mixes
// {tn: "..."} objects with bare strings.
func extractTrackingNumbers(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return []string{}
	}

	numbers := []string{}
	for _, item := range items {
		switch v := item.(type) {
		case map[string]interface{}:
			if tn := str(v["tn"]); tn != "" {
				numbers = append(numbers, tn)
			}
		case string, float64:
			numbers = append(numbers, str(v))
		}
	}
	return numbers
}
