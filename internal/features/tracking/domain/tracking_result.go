package domain

import "sort"

// Shipper identifiers. These are the values stored on disk and accepted by the
// API, so they must stay stable.
const (
	ShipperDHL         = "DHL"
	ShipperPostNL      = "PostNL"
	ShipperShip24      = "Ship24"
	ShipperYunExpress  = "YunExpress"
	ShipperGofoExpress = "GofoExpress"
)

// FieldSpec describes an extra input a shipper needs besides the tracking
// code, used by the add-package form.
type FieldSpec struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// TrackingResult is the unified snapshot of one package. Instances are
// produced by an adapter fetch, merged with the previous snapshot's metadata
// by the refresh job, and persisted keyed by (shipper, trackingCode).
type TrackingResult struct {
	TrackingCode      string `json:"trackingCode"`
	Shipper           string `json:"shipper"`
	PackageStatus     string `json:"packageStatus"`
	PackageStatusDate string `json:"packageStatusDate,omitempty"`
	// PostalCode and Country are carrier-specific disambiguators, kept so the
	// refresh job can re-fetch without user input.
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	// RawResponse is the verbatim carrier payload. Display helpers re-derive
	// detail fields from it without re-fetching.
	RawResponse string  `json:"rawResponse"`
	Events      []Event `json:"events"`
	IsCompleted bool    `json:"isCompleted"`
	// EtaStart and EtaEnd hold the carrier's delivery window, when known.
	EtaStart string           `json:"etaStart,omitempty"`
	EtaEnd   string           `json:"etaEnd,omitempty"`
	Metadata *PackageMetadata `json:"metadata"`
}

// NewTrackingResult creates a result with fresh active metadata.
func NewTrackingResult(trackingCode, shipper, packageStatus string) *TrackingResult {
	return &TrackingResult{
		TrackingCode:  trackingCode,
		Shipper:       shipper,
		PackageStatus: packageStatus,
		Events:        []Event{},
		Metadata:      NewPackageMetadata(),
	}
}

// AddEvent appends an event to the result.
func (r *TrackingResult) AddEvent(event Event) {
	r.Events = append(r.Events, event)
}

// SortEventsDesc orders the events newest-first. Adapters call this after
// normalization and the store calls it after loading, so consumers can rely
// on Events[0] being the most recent milestone.
func (r *TrackingResult) SortEventsDesc() {
	sort.SliceStable(r.Events, func(i, j int) bool {
		return r.Events[i].Time().After(r.Events[j].Time())
	})
}

// WithEvents returns a shallow clone holding the given events instead.
func (r *TrackingResult) WithEvents(events []Event) *TrackingResult {
	clone := *r
	clone.Events = events
	return &clone
}

// Diff returns a clone of r whose event list contains only the events not
// present in other, matched by (timestamp, description), sorted newest-first.
// Diff of a result against itself yields zero events.
func (r *TrackingResult) Diff(other *TrackingResult) *TrackingResult {
	seen := make(map[string]bool, len(other.Events))
	for _, event := range other.Events {
		seen[event.Key()] = true
	}

	fresh := []Event{}
	for _, event := range r.Events {
		if !seen[event.Key()] {
			fresh = append(fresh, event)
		}
	}

	diffed := r.WithEvents(fresh)
	diffed.SortEventsDesc()
	return diffed
}
