package ports

import (
	"context"

	"parceltrack/internal/features/tracking/domain"
)

// FetchOptions carries the shipper-specific disambiguators some carriers need
// besides the tracking code.
type FetchOptions struct {
	PostalCode string
	Country    string
}

// Shipper is the per-carrier adapter contract: fetch raw data from the
// carrier and normalize it into the unified TrackingResult model.
//
// Failure semantics differ per carrier and callers rely on the distinction:
// most carriers return an error wrapping domain.ErrFetchFailed on malformed
// or empty responses, which the refresh job logs and skips. PostNL returns a
// *domain.CarrierError with a localized diagnostic that the add-package flow
// surfaces to the user verbatim.
type Shipper interface {
	// Fetch retrieves and normalizes tracking data for one package.
	Fetch(ctx context.Context, trackingCode string, opts FetchOptions) (*domain.TrackingResult, error)
	// RequiredFields lists the extra inputs this shipper needs when adding a
	// package. Only the tracking code is always required.
	RequiredFields() []domain.FieldSpec
	// ShipperLink builds a deep link to the package on the carrier's own
	// website from stored fields. Pure; no network. Empty when unavailable.
	ShipperLink(pkg *domain.TrackingResult) string
}

// PackageRepository is the persistence port: one record per
// (shipper, trackingCode) composite key.
type PackageRepository interface {
	Save(result *domain.TrackingResult) error
	// Load returns nil without error when no record exists for the key.
	Load(shipper, trackingCode string) (*domain.TrackingResult, error)
	GetAll() ([]*domain.TrackingResult, error)
	// Delete reports whether a record was actually removed.
	Delete(shipper, trackingCode string) (bool, error)
}

// Notifier dispatches a composed notification to a target address. How
// delivery happens (CLI tool, API) is an adapter concern.
type Notifier interface {
	Notify(ctx context.Context, title, body, target string) error
}

// CommandRunner abstracts external helper-process invocation, used by the
// GofoExpress adapter (browser helper) and the apprise notifier.
type CommandRunner interface {
	// Run executes the command and returns its standard output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
