package display

import (
	"encoding/json"

	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/domain"

	"go.uber.org/zap"
)

var gofoConfig = []entry{
	{label: "Gewicht", path: "weight", kind: "weight"},
}

// GofoExpressHelper renders the GofoExpress detail view from the stored raw
// shipment.
type GofoExpressHelper struct {
	pkg     *domain.TrackingResult
	details map[string]interface{}
	logger  *zap.Logger
}

// NewGofoExpressHelper creates a GofoExpressHelper for the given package.
// Details live under data[0] in the raw payload.
func NewGofoExpressHelper(pkg *domain.TrackingResult) *GofoExpressHelper {
	helper := &GofoExpressHelper{
		pkg:    pkg,
		logger: logger.Named("display"),
	}

	var envelope map[string]interface{}
	if err := json.Unmarshal([]byte(pkg.RawResponse), &envelope); err == nil {
		if shipments, ok := envelope["data"].([]interface{}); ok && len(shipments) > 0 {
			if shipment, ok := shipments[0].(map[string]interface{}); ok {
				helper.details = shipment
			}
		}
	}
	return helper
}

// DisplayData builds the full display payload.
func (h *GofoExpressHelper) DisplayData() *Data {
	data := baseData(h.pkg)
	data.TrackingLink = "https://www.gofoexpress.nl/tracking-results/?id=" + h.pkg.TrackingCode
	data.FormattedDetails = h.formatDetails()
	return data
}

func (h *GofoExpressHelper) formatDetails() []Field {
	formatted := []Field{}
	if h.details == nil {
		return formatted
	}

	for _, spec := range gofoConfig {
		value := str(lookup(h.details, spec.path))
		if value == "" || spec.hidden {
			continue
		}
		if spec.kind == "weight" {
			value += " kg"
		}
		formatted = append(formatted, Field{Label: spec.label, Value: value})
	}
	return formatted
}
