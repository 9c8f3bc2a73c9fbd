// Package display renders the per-carrier detail view of a package. Each
// helper re-parses the stored raw carrier payload and extracts an ordered
// list of labeled fields, so the web UI never needs carrier knowledge.
package display

import (
	"fmt"
	"strconv"
	"strings"

	"parceltrack/internal/features/tracking/domain"
)

// Field is one labeled row of the detail view. Fields keep the order their
// helper emits them in.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Metadata is the user-editable part of a package as exposed to the UI.
type Metadata struct {
	Status     string `json:"status"`
	AppriseURL string `json:"appriseUrl,omitempty"`
}

// Data is the full display payload for one package.
type Data struct {
	Shipper           string         `json:"shipper"`
	TrackingCode      string         `json:"trackingCode"`
	PostalCode        string         `json:"postalCode,omitempty"`
	PackageStatus     string         `json:"packageStatus"`
	PackageStatusDate string         `json:"packageStatusDate,omitempty"`
	CustomName        string         `json:"customName,omitempty"`
	Events            []domain.Event `json:"events"`
	Metadata          Metadata       `json:"metadata"`
	TrackingLink      string         `json:"trackingLink,omitempty"`
	FormattedDetails  []Field        `json:"formattedDetails"`
}

// Helper extracts the display payload for one carrier's packages.
type Helper interface {
	DisplayData() *Data
}

// entry describes one configured detail field: where to find it in the raw
// payload and how to render it. Hidden entries are evaluated but never shown.
type entry struct {
	label  string
	path   string
	kind   string
	hidden bool
}

// baseData fills the carrier-independent part of the payload.
func baseData(pkg *domain.TrackingResult) *Data {
	data := &Data{
		Shipper:           pkg.Shipper,
		TrackingCode:      pkg.TrackingCode,
		PostalCode:        pkg.PostalCode,
		PackageStatus:     pkg.PackageStatus,
		PackageStatusDate: pkg.PackageStatusDate,
		Events:            pkg.Events,
		Metadata:          Metadata{Status: string(domain.PackageStatusActive)},
	}
	if pkg.Metadata != nil {
		data.CustomName = pkg.Metadata.CustomName
		data.Metadata = Metadata{
			Status:     string(pkg.Metadata.Status),
			AppriseURL: pkg.Metadata.AppriseURL,
		}
	}
	return data
}

// lookup walks a dotted path through decoded JSON. Missing segments yield nil.
func lookup(value interface{}, path string) interface{} {
	for _, part := range strings.Split(path, ".") {
		obj, ok := value.(map[string]interface{})
		if !ok {
			return nil
		}
		value = obj[part]
		if value == nil {
			return nil
		}
	}
	return value
}

// str renders a scalar JSON value as text. Non-scalars render empty.
func str(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// num renders a scalar JSON value as a float, accepting numeric strings.
func num(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// formatAddress collects the non-empty parts of an address object: street
// with house number, postal code, town (or city).
func formatAddress(addr map[string]interface{}) []string {
	street := strings.TrimSpace(str(addr["street"]) + " " + str(addr["houseNumber"]) + str(addr["houseNumberSuffix"]))
	town := str(addr["town"])
	if town == "" {
		town = str(addr["city"])
	}

	parts := []string{}
	for _, part := range []string{street, str(addr["postalCode"]), town} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// mapLink renders an OpenStreetMap anchor for the given coordinates.
func mapLink(lat, lon interface{}) string {
	return fmt.Sprintf(`<a href="https://www.openstreetmap.org/?mlat=%s&mlon=%s" target="_blank">OpenStreetMap</a>`, str(lat), str(lon))
}
