package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/dutchdate"
	"parceltrack/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// The %%2B is a URL-encoded plus separating tracking code and postal code.
const dhlAPIURL = "https://api-gw.dhlparcel.nl/track-trace?key=%s%%2B%s"

// Status codes the DHL translation file renders poorly; these bypass it.
var dhlStatusOverrides = map[string]string{
	"PRENOTIFICATION_RECEIVED":        "Aangemeld",
	"DATA_RECEIVED_WITH_PREFIX_LABEL": "Details ontvangen, verzendlabel aangemaakt",
}

// DhlAdapter fetches and normalizes DHL Parcel tracking data.
type DhlAdapter struct {
	client       *http.Client
	translations *DhlTranslationService
	logger       *zap.Logger
}

// NewDhlAdapter creates a DhlAdapter using the given HTTP client and
// translation service.
func NewDhlAdapter(client *http.Client, translations *DhlTranslationService) *DhlAdapter {
	return &DhlAdapter{
		client:       client,
		translations: translations,
		logger:       logger.Named("dhl"),
	}
}

// dhlShipment is the single element of the array DHL returns.
type dhlShipment struct {
	Events                   []dhlEvent `json:"events"`
	DeliveredAt              string     `json:"deliveredAt"`
	PlannedDeliveryTimeframe string     `json:"plannedDeliveryTimeframe"`
}

type dhlEvent struct {
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Facility  string `json:"facility"`
}

// Fetch retrieves tracking data keyed by tracking code and postal code.
func (a *DhlAdapter) Fetch(ctx context.Context, trackingCode string, opts ports.FetchOptions) (*domain.TrackingResult, error) {
	url := fmt.Sprintf(dhlAPIURL, trackingCode, opts.PostalCode)
	a.logger.Info("Fetching DHL tracking data",
		zap.String("tracking_code", trackingCode),
		zap.String("url", url),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create DHL request: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: DHL request for %s: %v", domain.ErrFetchFailed, trackingCode, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading DHL response for %s: %v", domain.ErrFetchFailed, trackingCode, err)
	}

	result, err := a.parse(ctx, trackingCode, opts.PostalCode, body)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// parse maps the raw DHL payload into the unified model.
func (a *DhlAdapter) parse(ctx context.Context, trackingCode, postalCode string, body []byte) (*domain.TrackingResult, error) {
	var shipments []dhlShipment
	if err := json.Unmarshal(body, &shipments); err != nil || len(shipments) == 0 {
		a.logger.Error("Invalid response from DHL", zap.String("tracking_code", trackingCode))
		return nil, fmt.Errorf("%w: invalid response from DHL for %s", domain.ErrFetchFailed, trackingCode)
	}

	shipment := shipments[0]

	result := domain.NewTrackingResult(trackingCode, domain.ShipperDHL, "Unknown")
	result.PostalCode = postalCode
	result.RawResponse = string(body)

	for _, raw := range shipment.Events {
		result.AddEvent(domain.NewEvent(raw.Timestamp, a.translate(ctx, raw.Status), raw.Facility))
	}
	result.SortEventsDesc()

	if len(result.Events) > 0 {
		result.PackageStatus = result.Events[0].Description
	}

	switch {
	case shipment.DeliveredAt != "":
		result.IsCompleted = true
		result.PackageStatus = "Bezorgd"
		result.PackageStatusDate = shipment.DeliveredAt
	case shipment.PlannedDeliveryTimeframe != "":
		// A "start/end" ISO range, e.g. "2025-10-09T10:00:00/2025-10-09T14:00:00".
		parts := strings.SplitN(shipment.PlannedDeliveryTimeframe, "/", 2)
		if len(parts) == 2 {
			result.PackageStatus = fmt.Sprintf("Geplande bezorging:<br>%s",
				dutchdate.FormatRange(parts[0], parts[1]))
			result.EtaStart = parts[0]
			result.EtaEnd = parts[1]
		}
	}

	return result, nil
}

// translate resolves a DHL status code to Dutch, honoring the hardcoded
// overrides before consulting the remote translation table.
func (a *DhlAdapter) translate(ctx context.Context, status string) string {
	if override, ok := dhlStatusOverrides[status]; ok {
		return override
	}
	return a.translations.Translate(ctx, "events.status", status)
}

// RequiredFields lists the postal code DHL needs besides the tracking code.
func (a *DhlAdapter) RequiredFields() []domain.FieldSpec {
	return []domain.FieldSpec{
		{ID: "postalCode", Label: "Postal Code", Type: "text", Required: true},
	}
}

// ShipperLink builds the DHL track-and-trace deep link.
func (a *DhlAdapter) ShipperLink(pkg *domain.TrackingResult) string {
	if pkg.TrackingCode == "" {
		return ""
	}
	if pkg.PostalCode != "" {
		return fmt.Sprintf("https://www.dhlparcel.nl/nl/volg-uw-zending-0?tt=%s&pc=%s", pkg.TrackingCode, pkg.PostalCode)
	}
	return fmt.Sprintf("https://www.dhlparcel.nl/nl/volg-uw-zending-0?tt=%s", pkg.TrackingCode)
}
