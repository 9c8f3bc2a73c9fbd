package domain

// PackageStatus tells whether a package still participates in the default
// refresh cycle.
type PackageStatus string

const (
	// PackageStatusActive means the package is refreshed and may notify.
	PackageStatusActive PackageStatus = "active"
	// PackageStatusInactive means the package is skipped by the default
	// refresh run. Set automatically once a package is delivered; only a user
	// action reactivates it.
	PackageStatusInactive PackageStatus = "inactive"
)

// PackageMetadata holds the user-editable part of a package. It is carried
// forward across refresh cycles so edits survive re-fetches.
type PackageMetadata struct {
	// CustomName is an optional user label shown instead of the tracking code.
	CustomName string `json:"customName,omitempty"`
	// Status defaults to active on creation.
	Status PackageStatus `json:"status"`
	// AppriseURL is the notification target for this package. Empty means the
	// configured default target is used.
	AppriseURL string `json:"appriseUrl,omitempty"`
}

// NewPackageMetadata returns metadata with the default active status.
func NewPackageMetadata() *PackageMetadata {
	return &PackageMetadata{Status: PackageStatusActive}
}

// MarkInactive transitions the package to inactive. The transition is one-way
// and idempotent; calling it on an already inactive package is a no-op.
func (m *PackageMetadata) MarkInactive() {
	m.Status = PackageStatusInactive
}

// IsActive reports whether the package participates in the default refresh run.
// Missing status on records written by older versions counts as active.
func (m *PackageMetadata) IsActive() bool {
	return m == nil || m.Status == "" || m.Status == PackageStatusActive
}
