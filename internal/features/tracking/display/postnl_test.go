package display

import (
	"testing"

	"parceltrack/internal/features/tracking/domain"

	"github.com/stretchr/testify/assert"
)

// TestPostnlHelper_DisplayData verifies recipient, weight, retail location
// and opening hours extraction from a raw colli payload.
func TestPostnlHelper_DisplayData(t *testing.T) {
	raw := `{
    "colli": {
        "3SABCD000111222": {
            "recipient": {
                "names": {"personName": "J. Jansen"},
                "address": {"street": "Dorpsstraat", "houseNumber": "1", "postalCode": "1234AB", "town": "Ons Dorp", "country": "NL"}
            },
            "details": {
                "dimensions": {"weight": 2500, "depth": 30, "width": 20, "height": 10}
            },
            "retailDeliveryLocation": {
                "locationName": "Primera Ons Dorp",
                "address": {"street": "Kerkstraat", "houseNumber": "2", "postalCode": "1234CD", "town": "Ons Dorp"},
                "coordinate": {"latitude": 52.37, "longitude": 4.89},
                "businessHours": [
                    {"day": 1, "hours": [{"from": "09:00", "to": "18:00"}]},
                    {"day": 0, "hours": [{"from": "12:00", "to": "17:00"}]}
                ]
            }
        }
    }
}`
	pkg := domain.NewTrackingResult("3SABCD000111222", domain.ShipperPostNL, "Bezorgd")
	pkg.RawResponse = raw

	data := NewPostnlHelper(pkg).DisplayData()

	assert.Equal(t, "https://jouw.postnl.nl/track-and-trace/3SABCD000111222/NL/1234AB", data.TrackingLink)

	fields := map[string]string{}
	for _, field := range data.FormattedDetails {
		fields[field.Label] = field.Value
	}
	assert.Equal(t, "J. Jansen, Dorpsstraat 1, 1234AB, Ons Dorp", fields["Ontvanger"])
	assert.Equal(t, "2.50 kg", fields["Gewicht"])
	assert.Equal(t, "30x20x10", fields["Afmetingen"])
	assert.Equal(t, "Primera Ons Dorp, Kerkstraat 2, 1234CD, Ons Dorp", fields["Retail Location"])
	assert.Contains(t, fields["Map Link"], "mlat=52.37")
	assert.Equal(t, "ma: 09:00 - 18:00<br>zo: 12:00 - 17:00", fields["Opening Hours"])
}

// TestPostnlHelper_DisplayData_MissingColli verifies a payload without the
// tracking code yields empty details and a fallback link.
func TestPostnlHelper_DisplayData_MissingColli(t *testing.T) {
	pkg := domain.NewTrackingResult("3SABCD000111222", domain.ShipperPostNL, "Onderweg")
	pkg.RawResponse = `{"colli": {}}`

	data := NewPostnlHelper(pkg).DisplayData()
	assert.Empty(t, data.FormattedDetails)
	assert.Equal(t, "https://jouw.postnl.nl/track-and-trace/3SABCD000111222/NL/", data.TrackingLink)
}
