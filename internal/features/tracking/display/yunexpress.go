package display

import (
	"encoding/json"

	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/dutchdate"

	"go.uber.org/zap"
)

var yunExpressConfig = []entry{
	{label: "Oorsprong", path: "TrackInfo.OriginCountryCode"},
	{label: "Bestemming", path: "TrackInfo.DestinationCountryCode"},
	{label: "Status", path: "TrackData.TrackStatus"},
	{label: "Gewicht", path: "TrackInfo.Weight"},
	{label: "Notitie", path: "TrackInfo.AdditionalNotes"},
	{label: "Vracht #", path: "TrackInfo.WaybillNumber"},
	{label: "Tracking #", path: "TrackInfo.TrackingNumber"},
	{label: "Klantorder #", path: "TrackInfo.CustomerOrderNumber"},
	{label: "Aangemaakt", path: "TrackInfo.CreatedOn", kind: "date"},
	{label: "Bijgewerkt", path: "TrackInfo.LastTrackEvent.ProcessDate", kind: "date"},
}

// YunExpressHelper renders the YunExpress detail view from the stored raw
// result entry.
type YunExpressHelper struct {
	pkg     *domain.TrackingResult
	details map[string]interface{}
	logger  *zap.Logger
}

// NewYunExpressHelper creates a YunExpressHelper for the given package.
// Details live under ResultList[0] in the raw payload.
func NewYunExpressHelper(pkg *domain.TrackingResult) *YunExpressHelper {
	helper := &YunExpressHelper{
		pkg:    pkg,
		logger: logger.Named("display"),
	}

	var envelope map[string]interface{}
	if err := json.Unmarshal([]byte(pkg.RawResponse), &envelope); err == nil {
		if results, ok := envelope["ResultList"].([]interface{}); ok && len(results) > 0 {
			if result, ok := results[0].(map[string]interface{}); ok {
				helper.details = result
			}
		}
	}
	return helper
}

// DisplayData builds the full display payload.
func (h *YunExpressHelper) DisplayData() *Data {
	data := baseData(h.pkg)
	data.TrackingLink = "https://www.yuntrack.com/Track/Detailing?id=" + h.pkg.TrackingCode
	data.FormattedDetails = h.formatDetails()
	return data
}

func (h *YunExpressHelper) formatDetails() []Field {
	formatted := []Field{}
	if h.details == nil {
		return formatted
	}

	for _, spec := range yunExpressConfig {
		value := lookup(h.details, spec.path)
		if value == nil {
			continue
		}

		rendered := str(value)
		if spec.kind == "date" && rendered != "" {
			rendered = dutchdate.Format(rendered)
		} else if spec.kind != "" && spec.kind != "date" {
			h.logger.Debug("Unknown display field type",
				zap.String("type", spec.kind),
				zap.String("label", spec.label),
			)
			continue
		}

		if rendered == "" || spec.hidden {
			continue
		}
		formatted = append(formatted, Field{Label: spec.label, Value: rendered})
	}
	return formatted
}
