package adapter

import (
	"testing"

	"parceltrack/internal/features/tracking/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestYunExpressAdapter_parse_Success verifies status extraction and event
// reordering; the carrier lists events oldest-first.
func TestYunExpressAdapter_parse_Success(t *testing.T) {
	body := `{
    "ResultList": [
        {
            "TrackInfo": {
                "TrackEventDetails": [
                    {"CreatedOn": "2025-10-05T08:00:00", "ProcessContent": "Parcel information received", "ProcessLocation": "Shenzhen"},
                    {"CreatedOn": "2025-10-07T21:30:00", "ProcessContent": "Departed from facility", "ProcessLocation": "Hongkong"}
                ]
            },
            "TrackData": {"TrackStatus": "In Transit"}
        }
    ]
}`
	adapter := NewYunExpressAdapter(nil)

	result, err := adapter.parse("YT2025123456789", []byte(body))
	require.NoError(t, err)

	assert.Equal(t, domain.ShipperYunExpress, result.Shipper)
	assert.Equal(t, "In Transit", result.PackageStatus)

	require.Len(t, result.Events, 2)
	assert.Equal(t, "Departed from facility", result.Events[0].Description)
	assert.Equal(t, "Parcel information received", result.Events[1].Description)
}

// TestYunExpressAdapter_parse_StatusFallback verifies the newest event backs
// the status when TrackStatus is absent.
func TestYunExpressAdapter_parse_StatusFallback(t *testing.T) {
	body := `{
    "ResultList": [
        {
            "TrackInfo": {
                "TrackEventDetails": [
                    {"CreatedOn": "2025-10-05T08:00:00", "ProcessContent": "Parcel information received"},
                    {"CreatedOn": "2025-10-07T21:30:00", "ProcessContent": "Departed from facility"}
                ]
            },
            "TrackData": {}
        }
    ]
}`
	adapter := NewYunExpressAdapter(nil)

	result, err := adapter.parse("YT2025123456789", []byte(body))
	require.NoError(t, err)
	assert.Equal(t, "Departed from facility", result.PackageStatus)
}

// TestYunExpressAdapter_parse_Invalid verifies missing result data fails
// softly.
func TestYunExpressAdapter_parse_Invalid(t *testing.T) {
	adapter := NewYunExpressAdapter(nil)

	for _, body := range []string{`{"ResultList": []}`, `{}`, `not json`} {
		_, err := adapter.parse("YT2025123456789", []byte(body))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrFetchFailed)
	}
}
