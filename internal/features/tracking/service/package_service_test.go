package service

import (
	"context"
	"testing"

	"parceltrack/internal/core/config"
	"parceltrack/internal/features/tracking/display"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPackageFixture(shipper *mockShipper) (*PackageService, *mockRepository, *mockNotifier) {
	cfg := &config.AppConfig{
		DefaultCountry: "NL",
		ParcelTrackURL: "https://parceltrack.example",
		Notify:         config.NotifyConfig{AppriseURL: "ntfys://host/topic"},
	}
	repo := newMockRepository()
	notifier := &mockNotifier{}
	provider := &mockProvider{shipper: shipper}
	notifications := NewNotificationService(cfg, notifier, provider)
	return NewPackageService(cfg, repo, provider, notifications), repo, notifier
}

// TestPackageService_AddPackage verifies fetch, metadata defaults, persist
// and the initial notification.
func TestPackageService_AddPackage(t *testing.T) {
	fetched := domain.NewTrackingResult("3SABCD000111222", domain.ShipperPostNL, "Onderweg")
	shipper := &mockShipper{result: fetched}

	svc, repo, notifier := newPackageFixture(shipper)

	result, err := svc.AddPackage(context.Background(), AddPackageInput{
		Shipper:      domain.ShipperPostNL,
		TrackingCode: "3SABCD000111222",
		PostalCode:   "1234AB",
		CustomName:   "<b>Kabels</b>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Kabels", result.Metadata.CustomName)
	assert.Equal(t, "ntfys://host/topic", result.Metadata.AppriseURL)
	assert.Equal(t, ports.FetchOptions{PostalCode: "1234AB", Country: "NL"}, shipper.lastOpts)

	saved, err := repo.Load(domain.ShipperPostNL, "3SABCD000111222")
	require.NoError(t, err)
	require.NotNil(t, saved)

	require.Len(t, notifier.titles, 1)
	assert.Equal(t, "ParcelTrack Update: Kabels", notifier.titles[0])
	assert.Equal(t, "ntfys://host/topic", notifier.targets[0])
}

// TestPackageService_AddPackage_UnknownShipper verifies the Dutch diagnostic
// listing supported shippers.
func TestPackageService_AddPackage_UnknownShipper(t *testing.T) {
	svc, _, _ := newPackageFixture(nil)

	_, err := svc.AddPackage(context.Background(), AddPackageInput{
		Shipper:      "UPS",
		TrackingCode: "1Z999",
	})
	require.Error(t, err)

	var unknownErr *UnknownShipperError
	require.ErrorAs(t, err, &unknownErr)
	assert.Contains(t, err.Error(), "Onbekende vervoerder 'UPS'")
	assert.Contains(t, err.Error(), "PostNL")
}

// TestPackageService_AddPackage_MissingInput verifies validation of the two
// mandatory fields.
func TestPackageService_AddPackage_MissingInput(t *testing.T) {
	svc, _, _ := newPackageFixture(nil)

	_, err := svc.AddPackage(context.Background(), AddPackageInput{Shipper: domain.ShipperDHL})
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = svc.AddPackage(context.Background(), AddPackageInput{TrackingCode: "X"})
	assert.ErrorIs(t, err, ErrMissingInput)
}

// TestPackageService_AddPackage_CarrierError verifies carrier diagnostics
// propagate verbatim to the caller.
func TestPackageService_AddPackage_CarrierError(t *testing.T) {
	shipper := &mockShipper{err: domain.NewCarrierError("Geen trackinginformatie gevonden bij PostNL voor code X met de opgegeven postcode.")}
	svc, repo, notifier := newPackageFixture(shipper)

	_, err := svc.AddPackage(context.Background(), AddPackageInput{
		Shipper:      domain.ShipperPostNL,
		TrackingCode: "X",
	})
	require.Error(t, err)

	var carrierErr *domain.CarrierError
	require.ErrorAs(t, err, &carrierErr)
	assert.Empty(t, repo.records)
	assert.Empty(t, notifier.titles)
}

// TestPackageService_UpdatePackage verifies metadata edits by composite key.
func TestPackageService_UpdatePackage(t *testing.T) {
	svc, repo, _ := newPackageFixture(nil)

	pkg := domain.NewTrackingResult("JVGL06123456789", domain.ShipperDHL, "Onderweg")
	require.NoError(t, repo.Save(pkg))

	name := " Nieuwe naam "
	status := "inactive"
	updated, err := svc.UpdatePackage(UpdatePackageInput{
		Shipper:      domain.ShipperDHL,
		TrackingCode: "JVGL06123456789",
		CustomName:   &name,
		Status:       &status,
	})
	require.NoError(t, err)
	assert.True(t, updated)

	saved, err := repo.Load(domain.ShipperDHL, "JVGL06123456789")
	require.NoError(t, err)
	assert.Equal(t, "Nieuwe naam", saved.Metadata.CustomName)
	assert.Equal(t, domain.PackageStatusInactive, saved.Metadata.Status)
}

// TestPackageService_UpdatePackage_NotFound verifies the not-found contract.
func TestPackageService_UpdatePackage_NotFound(t *testing.T) {
	svc, _, _ := newPackageFixture(nil)

	_, err := svc.UpdatePackage(UpdatePackageInput{
		Shipper:      domain.ShipperDHL,
		TrackingCode: "JVGL06123456789",
	})
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

// TestPackageService_UpdatePackage_InvalidStatus verifies status values are
// restricted to the known enum.
func TestPackageService_UpdatePackage_InvalidStatus(t *testing.T) {
	svc, repo, _ := newPackageFixture(nil)
	require.NoError(t, repo.Save(domain.NewTrackingResult("JVGL06123456789", domain.ShipperDHL, "Onderweg")))

	status := "paused"
	_, err := svc.UpdatePackage(UpdatePackageInput{
		Shipper:      domain.ShipperDHL,
		TrackingCode: "JVGL06123456789",
		Status:       &status,
	})
	assert.Error(t, err)
}

// TestPackageService_DeletePackage verifies deletion reports existence.
func TestPackageService_DeletePackage(t *testing.T) {
	svc, repo, _ := newPackageFixture(nil)
	require.NoError(t, repo.Save(domain.NewTrackingResult("JVGL06123456789", domain.ShipperDHL, "Onderweg")))

	removed, err := svc.DeletePackage(domain.ShipperDHL, "JVGL06123456789")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.DeletePackage(domain.ShipperDHL, "JVGL06123456789")
	require.NoError(t, err)
	assert.False(t, removed)
}

// TestSortDisplayPackages verifies active-first ordering with newest events
// breaking ties.
func TestSortDisplayPackages(t *testing.T) {
	oldActive := &display.Data{
		TrackingCode: "old-active",
		Metadata:     display.Metadata{Status: "active"},
		Events:       []domain.Event{domain.NewEvent("2025-10-01T10:00:00", "a", "")},
	}
	newActive := &display.Data{
		TrackingCode: "new-active",
		Metadata:     display.Metadata{Status: "active"},
		Events:       []domain.Event{domain.NewEvent("2025-10-08T10:00:00", "b", "")},
	}
	inactive := &display.Data{
		TrackingCode: "inactive",
		Metadata:     display.Metadata{Status: "inactive"},
		Events:       []domain.Event{domain.NewEvent("2025-10-09T10:00:00", "c", "")},
	}

	packages := []*display.Data{inactive, oldActive, newActive}
	SortDisplayPackages(packages)

	assert.Equal(t, "new-active", packages[0].TrackingCode)
	assert.Equal(t, "old-active", packages[1].TrackingCode)
	assert.Equal(t, "inactive", packages[2].TrackingCode)
}
