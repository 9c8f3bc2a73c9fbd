package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/dutchdate"
	"parceltrack/internal/features/tracking/ports"

	"go.uber.org/zap"
)

const postnlAPIURL = "https://jouw.postnl.nl/track-and-trace/api/trackAndTrace/%s-%s-%s?language=NL"

// PostNL uses the literal placeholder "leeg" (empty) for observations
// without a real description.
const postnlEmptyObservation = "leeg"

// PostnlAdapter fetches and normalizes PostNL tracking data.
//
// Unlike the other adapters, a response in which PostNL explicitly reports
// no data for the requested code raises a *domain.CarrierError with a Dutch
// diagnostic. The add-package flow shows that message to the user verbatim.
type PostnlAdapter struct {
	client *http.Client
	logger *zap.Logger
}

// NewPostnlAdapter creates a PostnlAdapter using the given HTTP client.
func NewPostnlAdapter(client *http.Client) *PostnlAdapter {
	return &PostnlAdapter{
		client: client,
		logger: logger.Named("postnl"),
	}
}

type postnlColli struct {
	IsDelivered  bool   `json:"isDelivered"`
	DeliveryDate string `json:"deliveryDate"`
	StatusPhase  struct {
		Message string `json:"message"`
	} `json:"statusPhase"`
	Eta *struct {
		Type  string `json:"type"`
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"eta"`
	AnalyticsInfo struct {
		AllObservations []struct {
			ObservationDate string `json:"observationDate"`
			Description     string `json:"description"`
		} `json:"allObservations"`
	} `json:"analyticsInfo"`
}

// Fetch retrieves tracking data keyed by tracking code, country and postal code.
func (a *PostnlAdapter) Fetch(ctx context.Context, trackingCode string, opts ports.FetchOptions) (*domain.TrackingResult, error) {
	url := fmt.Sprintf(postnlAPIURL, trackingCode, opts.Country, opts.PostalCode)
	a.logger.Info("Fetching PostNL tracking data",
		zap.String("tracking_code", trackingCode),
		zap.String("url", url),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create PostNL request: %v", domain.ErrFetchFailed, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: PostNL request for %s: %v", domain.ErrFetchFailed, trackingCode, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PostNL response for %s: %v", domain.ErrFetchFailed, trackingCode, err)
	}

	return a.parse(trackingCode, opts, body)
}

// parse maps the raw PostNL payload into the unified model.
func (a *PostnlAdapter) parse(trackingCode string, opts ports.FetchOptions, body []byte) (*domain.TrackingResult, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, a.carrierError(fmt.Sprintf("Ongeldig antwoord van PostNL voor %s: 'colli' niet gevonden.", trackingCode))
	}

	rawColli, ok := envelope["colli"]
	if !ok {
		return nil, a.carrierError(fmt.Sprintf("Ongeldig antwoord van PostNL voor %s: 'colli' niet gevonden.", trackingCode))
	}

	var colliSet map[string]postnlColli
	if err := json.Unmarshal(rawColli, &colliSet); err != nil || len(colliSet) == 0 {
		return nil, a.carrierError(fmt.Sprintf("Geen trackinginformatie gevonden bij PostNL voor code %s met de opgegeven postcode.", trackingCode))
	}

	colli, ok := colliSet[trackingCode]
	if !ok {
		return nil, a.carrierError(fmt.Sprintf("Ongeldig antwoord van PostNL: trackingcode %s niet gevonden in de data.", trackingCode))
	}

	status := colli.StatusPhase.Message
	if status == "" {
		status = "Unknown"
	}

	result := domain.NewTrackingResult(trackingCode, domain.ShipperPostNL, status)
	result.PostalCode = opts.PostalCode
	result.Country = opts.Country
	result.RawResponse = string(body)

	for _, raw := range colli.AnalyticsInfo.AllObservations {
		if raw.Description == postnlEmptyObservation {
			continue
		}
		result.AddEvent(domain.NewEvent(raw.ObservationDate, raw.Description, ""))
	}
	result.SortEventsDesc()

	switch {
	case colli.IsDelivered:
		result.IsCompleted = true
		result.PackageStatus = "Bezorgd"
		result.PackageStatusDate = colli.DeliveryDate
	case colli.Eta != nil && colli.Eta.Start != "":
		result.PackageStatus = formatPostnlEta(colli.Eta.Type, colli.Eta.Start, colli.Eta.End)
		result.PackageStatusDate = colli.Eta.Start
		result.EtaStart = colli.Eta.Start
		result.EtaEnd = colli.Eta.End
	}

	return result, nil
}

// formatPostnlEta renders the delivery expectation per ETA window type.
func formatPostnlEta(etaType, start, end string) string {
	switch etaType {
	case "OnlyFromTime":
		return fmt.Sprintf("Verwachte bezorging na %s", dutchdate.FormatClock(start))
	case "WholeDay":
		return fmt.Sprintf("Verwachte bezorging op %s", dutchdate.FormatDay(start))
	default:
		return fmt.Sprintf("Verwachte bezorging: %s, tussen %s en %s",
			dutchdate.Format(start), dutchdate.FormatClock(start), dutchdate.FormatClock(end))
	}
}

func (a *PostnlAdapter) carrierError(message string) error {
	a.logger.Error(message)
	return domain.NewCarrierError(message)
}

// RequiredFields lists the postal code and country PostNL needs besides the
// tracking code.
func (a *PostnlAdapter) RequiredFields() []domain.FieldSpec {
	return []domain.FieldSpec{
		{ID: "postalCode", Label: "Postal Code", Type: "text", Required: true},
		{ID: "country", Label: "Country", Type: "text", Required: true},
	}
}

// ShipperLink builds the PostNL track-and-trace deep link.
func (a *PostnlAdapter) ShipperLink(pkg *domain.TrackingResult) string {
	if pkg.TrackingCode == "" {
		return ""
	}
	country := pkg.Country
	if country == "" {
		country = "NL"
	}
	return fmt.Sprintf("https://jouw.postnl.nl/track-and-trace/%s/%s/%s", pkg.TrackingCode, country, pkg.PostalCode)
}
