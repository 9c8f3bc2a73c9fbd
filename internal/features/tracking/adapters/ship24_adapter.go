package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/display"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/ports"

	"go.uber.org/zap"
)

const ship24APIURL = "https://api.ship24.com/public/v1/trackers/track"

// Ship24Adapter fetches and normalizes Ship24 aggregated tracking data. Only
// constructed when an API key is configured.
type Ship24Adapter struct {
	client *http.Client
	apiKey string
	logger *zap.Logger
}

// NewShip24Adapter creates a Ship24Adapter with the given API key.
func NewShip24Adapter(client *http.Client, apiKey string) *Ship24Adapter {
	return &Ship24Adapter{
		client: client,
		apiKey: apiKey,
		logger: logger.Named("ship24"),
	}
}

type ship24Request struct {
	TrackingNumber         string `json:"trackingNumber"`
	DestinationPostCode    string `json:"destinationPostCode,omitempty"`
	DestinationCountryCode string `json:"destinationCountryCode,omitempty"`
}

type ship24Response struct {
	Data struct {
		Trackings []ship24Tracking `json:"trackings"`
	} `json:"data"`
}

type ship24Tracking struct {
	Shipment struct {
		StatusMilestone string `json:"statusMilestone"`
		Delivery        struct {
			EstimatedDeliveryDate string `json:"estimatedDeliveryDate"`
		} `json:"delivery"`
	} `json:"shipment"`
	Events []struct {
		// Datetime is consistently UTC; occurrenceDatetime is carrier-local
		// and unreliable for ordering.
		Datetime string `json:"datetime"`
		Status   string `json:"status"`
		Location string `json:"location"`
	} `json:"events"`
	Statistics struct {
		Timestamps struct {
			DeliveredDatetime string `json:"deliveredDatetime"`
		} `json:"timestamps"`
	} `json:"statistics"`
}

// Fetch retrieves tracking data via the Ship24 tracker API.
func (a *Ship24Adapter) Fetch(ctx context.Context, trackingCode string, opts ports.FetchOptions) (*domain.TrackingResult, error) {
	a.logger.Info("Fetching Ship24 tracking data", zap.String("tracking_code", trackingCode))

	payload, err := json.Marshal(ship24Request{
		TrackingNumber:         trackingCode,
		DestinationPostCode:    opts.PostalCode,
		DestinationCountryCode: opts.Country,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding Ship24 request: %v", domain.ErrFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ship24APIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Ship24 request: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: Ship24 request for %s: %v", domain.ErrFetchFailed, trackingCode, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading Ship24 response for %s: %v", domain.ErrFetchFailed, trackingCode, err)
	}

	return a.parse(trackingCode, opts, body)
}

// parse maps the raw Ship24 payload into the unified model.
func (a *Ship24Adapter) parse(trackingCode string, opts ports.FetchOptions, body []byte) (*domain.TrackingResult, error) {
	var envelope ship24Response
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Data.Trackings) == 0 {
		a.logger.Error("Invalid response from Ship24", zap.String("tracking_code", trackingCode))
		return nil, fmt.Errorf("%w: invalid response from Ship24 for %s", domain.ErrFetchFailed, trackingCode)
	}

	tracking := envelope.Data.Trackings[0]

	result := domain.NewTrackingResult(trackingCode, domain.ShipperShip24,
		display.TranslateStatusMilestone(tracking.Shipment.StatusMilestone))
	result.PostalCode = opts.PostalCode
	result.Country = opts.Country
	result.RawResponse = string(body)

	for _, raw := range tracking.Events {
		result.AddEvent(domain.NewEvent(raw.Datetime, raw.Status, raw.Location))
	}
	result.SortEventsDesc()

	delivered := tracking.Statistics.Timestamps.DeliveredDatetime
	estimated := tracking.Shipment.Delivery.EstimatedDeliveryDate

	switch {
	case delivered != "":
		result.IsCompleted = true
		result.PackageStatus = "Bezorgd"
		result.PackageStatusDate = delivered
	case estimated != "":
		result.PackageStatus = "Geplande bezorging: " + estimated
		result.PackageStatusDate = estimated
		result.EtaStart = estimated
	}

	return result, nil
}

// RequiredFields lists the postal code and country Ship24 wants for matching.
func (a *Ship24Adapter) RequiredFields() []domain.FieldSpec {
	return []domain.FieldSpec{
		{ID: "postalCode", Label: "Postal Code", Type: "text", Required: true},
		{ID: "country", Label: "Country", Type: "text", Required: true},
	}
}

// ShipperLink returns empty: Ship24 is an aggregator without a public
// per-package tracking page.
func (a *Ship24Adapter) ShipperLink(pkg *domain.TrackingResult) string {
	return ""
}
