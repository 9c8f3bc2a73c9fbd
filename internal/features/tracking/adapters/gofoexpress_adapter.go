package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// GofoExpressAdapter normalizes GofoExpress tracking data. The actual fetch
// is delegated to an external headless-browser helper (cmd/gofofetch) that
// prints the carrier JSON on its standard output; this adapter only parses
// that output.
type GofoExpressAdapter struct {
	fetcherBin string
	runner     ports.CommandRunner
	logger     *zap.Logger
}

// NewGofoExpressAdapter creates a GofoExpressAdapter invoking the given
// helper binary through the runner.
func NewGofoExpressAdapter(fetcherBin string, runner ports.CommandRunner) *GofoExpressAdapter {
	return &GofoExpressAdapter{
		fetcherBin: fetcherBin,
		runner:     runner,
		logger:     logger.Named("gofoexpress"),
	}
}

type gofoResponse struct {
	Data []gofoShipment `json:"data"`
}

type gofoShipment struct {
	TrackingNumber string     `json:"trackingNumber"`
	Status         string     `json:"status"`
	FrCountry      string     `json:"frCountry"`
	LastTrackEvent *gofoEvent `json:"lastTrackEvent"`
	TrackEventList []struct {
		ProcessDate     string `json:"processDate"`
		ProcessContent  string `json:"processContent"`
		ProcessLocation string `json:"processLocation"`
	} `json:"trackEventList"`
}

type gofoEvent struct {
	ProcessContent string `json:"processContent"`
	ProcessDate    string `json:"processDate"`
}

// Fetch runs the browser helper and normalizes its JSON output.
func (a *GofoExpressAdapter) Fetch(ctx context.Context, trackingCode string, opts ports.FetchOptions) (*domain.TrackingResult, error) {
	a.logger.Info("Fetching GofoExpress tracking data", zap.String("tracking_code", trackingCode))

	output, err := a.runner.Run(ctx, a.fetcherBin, trackingCode)
	if err != nil {
		a.logger.Error("GofoExpress browser helper failed",
			zap.String("tracking_code", trackingCode),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: GofoExpress helper for %s: %v", domain.ErrFetchFailed, trackingCode, err)
	}
	if len(output) == 0 {
		return nil, fmt.Errorf("%w: empty output from GofoExpress helper for %s", domain.ErrFetchFailed, trackingCode)
	}

	return a.parse(trackingCode, output)
}

// parse maps the helper's JSON output into the unified model.
func (a *GofoExpressAdapter) parse(trackingCode string, body []byte) (*domain.TrackingResult, error) {
	var envelope gofoResponse
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Data) == 0 {
		a.logger.Error("Invalid response from GofoExpress", zap.String("tracking_code", trackingCode))
		return nil, fmt.Errorf("%w: invalid response from GofoExpress for %s", domain.ErrFetchFailed, trackingCode)
	}

	shipment := envelope.Data[0]

	code := shipment.TrackingNumber
	if code == "" {
		code = trackingCode
	}

	status := shipment.Status
	if status == "" {
		status = "Unknown"
		if shipment.LastTrackEvent != nil && shipment.LastTrackEvent.ProcessContent != "" {
			status = shipment.LastTrackEvent.ProcessContent
		}
	}

	result := domain.NewTrackingResult(code, domain.ShipperGofoExpress, status)
	result.PostalCode = shipment.FrCountry
	result.Country = shipment.FrCountry
	result.RawResponse = string(body)

	if shipment.LastTrackEvent != nil {
		result.PackageStatusDate = shipment.LastTrackEvent.ProcessDate
	}

	if shipment.Status == "Delivered" {
		result.PackageStatus = "Bezorgd"
		result.IsCompleted = true
	}

	for _, raw := range shipment.TrackEventList {
		result.AddEvent(domain.NewEvent(raw.ProcessDate, raw.ProcessContent, raw.ProcessLocation))
	}
	result.SortEventsDesc()

	return result, nil
}

// RequiredFields is empty: GofoExpress only needs the tracking code.
func (a *GofoExpressAdapter) RequiredFields() []domain.FieldSpec {
	return []domain.FieldSpec{}
}

// ShipperLink builds the gofoexpress.nl deep link.
func (a *GofoExpressAdapter) ShipperLink(pkg *domain.TrackingResult) string {
	if pkg.TrackingCode == "" {
		return ""
	}
	return "https://www.gofoexpress.nl/tracking-results/?id=" + pkg.TrackingCode
}
