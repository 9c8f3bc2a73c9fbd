package adapter

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/ports"

	"go.uber.org/zap"
)

const (
	yunExpressAPIURL = "https://services.yuntrack.com/Track/Query"
	// Shared secret used by the public yuntrack.com frontend to sign queries.
	yunExpressSecret = "f3c42837e3b46431ddf5d7db7d67017d"
)

// YunExpressAdapter fetches and normalizes YunExpress tracking data via the
// signed endpoint the yuntrack.com site itself uses. Only the tracking code
// is needed; there are no disambiguators.
type YunExpressAdapter struct {
	client *http.Client
	logger *zap.Logger
}

// NewYunExpressAdapter creates a YunExpressAdapter using the given HTTP client.
func NewYunExpressAdapter(client *http.Client) *YunExpressAdapter {
	return &YunExpressAdapter{
		client: client,
		logger: logger.Named("yunexpress"),
	}
}

type yunExpressResponse struct {
	ResultList []struct {
		TrackInfo struct {
			TrackEventDetails []struct {
				CreatedOn       string `json:"CreatedOn"`
				ProcessContent  string `json:"ProcessContent"`
				ProcessLocation string `json:"ProcessLocation"`
			} `json:"TrackEventDetails"`
		} `json:"TrackInfo"`
		TrackData struct {
			TrackStatus string `json:"TrackStatus"`
		} `json:"TrackData"`
	} `json:"ResultList"`
}

// Fetch retrieves tracking data with an HMAC-signed POST.
func (a *YunExpressAdapter) Fetch(ctx context.Context, trackingCode string, opts ports.FetchOptions) (*domain.TrackingResult, error) {
	a.logger.Info("Fetching YunExpress tracking data", zap.String("tracking_code", trackingCode))

	numbers, err := json.Marshal([]string{trackingCode})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding YunExpress number list: %v", domain.ErrFetchFailed, err)
	}

	timestamp := time.Now().UnixMilli()
	message := fmt.Sprintf("Timestamp=%d&NumberList=%s", timestamp, numbers)

	mac := hmac.New(sha256.New, []byte(yunExpressSecret))
	mac.Write([]byte(message))
	signature := hex.EncodeToString(mac.Sum(nil))

	payload, err := json.Marshal(map[string]interface{}{
		"NumberList":          []string{trackingCode},
		"CaptchaVerification": "",
		"Timestamp":           timestamp,
		"Signature":           signature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding YunExpress payload: %v", domain.ErrFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, yunExpressAPIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create YunExpress request: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Origin", "https://www.yuntrack.com")
	req.Header.Set("Referer", "https://www.yuntrack.com/Track/Detailing?id="+trackingCode)
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: YunExpress request for %s: %v", domain.ErrFetchFailed, trackingCode, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading YunExpress response for %s: %v", domain.ErrFetchFailed, trackingCode, err)
	}

	return a.parse(trackingCode, body)
}

// parse maps the raw YunExpress payload into the unified model. The carrier
// lists events oldest-first; the last element is the current milestone.
func (a *YunExpressAdapter) parse(trackingCode string, body []byte) (*domain.TrackingResult, error) {
	var envelope yunExpressResponse
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.ResultList) == 0 {
		a.logger.Error("Invalid response from YunExpress", zap.String("tracking_code", trackingCode))
		return nil, fmt.Errorf("%w: invalid response from YunExpress for %s", domain.ErrFetchFailed, trackingCode)
	}

	entry := envelope.ResultList[0]
	if entry.TrackInfo.TrackEventDetails == nil {
		return nil, fmt.Errorf("%w: invalid response from YunExpress for %s", domain.ErrFetchFailed, trackingCode)
	}

	status := entry.TrackData.TrackStatus
	if status == "" {
		status = "Unknown"
		if n := len(entry.TrackInfo.TrackEventDetails); n > 0 {
			status = entry.TrackInfo.TrackEventDetails[n-1].ProcessContent
		}
	}

	result := domain.NewTrackingResult(trackingCode, domain.ShipperYunExpress, status)
	result.RawResponse = string(body)

	for _, raw := range entry.TrackInfo.TrackEventDetails {
		result.AddEvent(domain.NewEvent(raw.CreatedOn, raw.ProcessContent, raw.ProcessLocation))
	}
	result.SortEventsDesc()

	return result, nil
}

// RequiredFields is empty: YunExpress only needs the tracking code.
func (a *YunExpressAdapter) RequiredFields() []domain.FieldSpec {
	return []domain.FieldSpec{}
}

// ShipperLink builds the yuntrack.com deep link.
func (a *YunExpressAdapter) ShipperLink(pkg *domain.TrackingResult) string {
	if pkg.TrackingCode == "" {
		return ""
	}
	return "https://www.yuntrack.com/Track/Detailing?id=" + pkg.TrackingCode
}
