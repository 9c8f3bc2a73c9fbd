package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"parceltrack/internal/core/config"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refreshTestConfig() *config.AppConfig {
	return &config.AppConfig{
		FetchTimeoutSeconds: 15,
		ParcelTrackURL:      "https://parceltrack.example",
		Notify:              config.NotifyConfig{AppriseURL: "ntfys://host/topic"},
	}
}

func newRefreshFixture(shipper *mockShipper) (*RefreshService, *mockRepository, *mockNotifier) {
	cfg := refreshTestConfig()
	repo := newMockRepository()
	notifier := &mockNotifier{}
	provider := &mockProvider{shipper: shipper}
	notifications := NewNotificationService(cfg, notifier, provider)

	svc := NewRefreshService(cfg, repo, provider, notifications)
	svc.now = func() time.Time { return time.Date(2025, 10, 8, 12, 0, 0, 0, time.UTC) }
	return svc, repo, notifier
}

func storedPackage(events ...domain.Event) *domain.TrackingResult {
	pkg := domain.NewTrackingResult("3SABCD000111222", domain.ShipperPostNL, "Onderweg")
	pkg.PostalCode = "1234AB"
	pkg.Country = "NL"
	pkg.Events = events
	return pkg
}

// TestRefreshService_Run_Unchanged verifies an identical fetch is persisted
// without notifying.
func TestRefreshService_Run_Unchanged(t *testing.T) {
	events := []domain.Event{
		domain.NewEvent("2025-10-07T21:30:00", "Zending gesorteerd", ""),
		domain.NewEvent("2025-10-05T08:00:00", "Zending aangemeld", ""),
	}
	shipper := &mockShipper{result: storedPackage(events...)}

	svc, repo, notifier := newRefreshFixture(shipper)
	require.NoError(t, repo.Save(storedPackage(events...)))
	repo.saves = 0

	require.NoError(t, svc.Run(context.Background(), RefreshOptions{}))

	assert.Empty(t, notifier.titles)
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, ports.FetchOptions{PostalCode: "1234AB", Country: "NL"}, shipper.lastOpts)
}

// TestRefreshService_Run_NewEvents verifies the notification payload carries
// only the events the stored record has not seen.
func TestRefreshService_Run_NewEvents(t *testing.T) {
	oldEvents := []domain.Event{
		domain.NewEvent("2025-10-05T08:00:00", "Zending aangemeld", ""),
	}
	newEvents := append([]domain.Event{
		domain.NewEvent("2025-10-07T21:30:00", "Zending gesorteerd", "Utrecht"),
	}, oldEvents...)
	shipper := &mockShipper{result: storedPackage(newEvents...)}

	svc, repo, notifier := newRefreshFixture(shipper)
	require.NoError(t, repo.Save(storedPackage(oldEvents...)))

	require.NoError(t, svc.Run(context.Background(), RefreshOptions{}))

	require.Len(t, notifier.bodies, 1)
	assert.Contains(t, notifier.bodies[0], "Zending gesorteerd")
	assert.NotContains(t, notifier.bodies[0], "Zending aangemeld")

	saved, err := repo.Load(domain.ShipperPostNL, "3SABCD000111222")
	require.NoError(t, err)
	assert.Len(t, saved.Events, 2)
}

// TestRefreshService_Run_StatusChanged verifies a status-only change also
// notifies.
func TestRefreshService_Run_StatusChanged(t *testing.T) {
	fresh := storedPackage()
	fresh.PackageStatus = "Bezorgd vandaag"
	shipper := &mockShipper{result: fresh}

	svc, repo, notifier := newRefreshFixture(shipper)
	require.NoError(t, repo.Save(storedPackage()))

	require.NoError(t, svc.Run(context.Background(), RefreshOptions{}))

	require.Len(t, notifier.bodies, 1)
	assert.Contains(t, notifier.bodies[0], "Status: Bezorgd vandaag")
}

// TestRefreshService_Run_DeliveredTransition verifies the one-way inactive
// transition and its idempotence across cycles.
func TestRefreshService_Run_DeliveredTransition(t *testing.T) {
	delivered := storedPackage()
	delivered.PackageStatus = "Bezorgd"
	delivered.IsCompleted = true
	shipper := &mockShipper{result: delivered}

	svc, repo, _ := newRefreshFixture(shipper)
	require.NoError(t, repo.Save(storedPackage()))

	require.NoError(t, svc.Run(context.Background(), RefreshOptions{}))

	saved, err := repo.Load(domain.ShipperPostNL, "3SABCD000111222")
	require.NoError(t, err)
	assert.Equal(t, domain.PackageStatusInactive, saved.Metadata.Status)

	// The next default run skips inactive packages entirely.
	calls := shipper.fetchCalls
	require.NoError(t, svc.Run(context.Background(), RefreshOptions{}))
	assert.Equal(t, calls, shipper.fetchCalls)

	// A forced run over the delivered package must not flip it back.
	require.NoError(t, svc.Run(context.Background(), RefreshOptions{Force: true, NoNotification: true}))
	saved, err = repo.Load(domain.ShipperPostNL, "3SABCD000111222")
	require.NoError(t, err)
	assert.Equal(t, domain.PackageStatusInactive, saved.Metadata.Status)
}

// TestRefreshService_Run_FetchFailure verifies a failed fetch leaves the
// stored record untouched.
func TestRefreshService_Run_FetchFailure(t *testing.T) {
	shipper := &mockShipper{err: fmt.Errorf("%w: boom", domain.ErrFetchFailed)}

	svc, repo, notifier := newRefreshFixture(shipper)
	require.NoError(t, repo.Save(storedPackage()))
	repo.saves = 0

	require.NoError(t, svc.Run(context.Background(), RefreshOptions{}))

	assert.Zero(t, repo.saves)
	assert.Empty(t, notifier.titles)
}

// TestRefreshService_Run_Force verifies forced runs notify even without
// changes and NoNotification suppresses dispatch.
func TestRefreshService_Run_Force(t *testing.T) {
	shipper := &mockShipper{result: storedPackage()}

	svc, repo, notifier := newRefreshFixture(shipper)
	require.NoError(t, repo.Save(storedPackage()))

	require.NoError(t, svc.Run(context.Background(), RefreshOptions{Force: true}))
	assert.Len(t, notifier.titles, 1)

	require.NoError(t, svc.Run(context.Background(), RefreshOptions{Force: true, NoNotification: true}))
	assert.Len(t, notifier.titles, 1)
}

// TestRefreshService_Run_PackageFilter verifies the single-package filter
// overrides the active-only default.
func TestRefreshService_Run_PackageFilter(t *testing.T) {
	shipper := &mockShipper{result: storedPackage()}

	svc, repo, _ := newRefreshFixture(shipper)
	require.NoError(t, repo.Save(storedPackage()))

	other := domain.NewTrackingResult("JVGL06123456789", domain.ShipperDHL, "Onderweg")
	require.NoError(t, repo.Save(other))

	require.NoError(t, svc.Run(context.Background(), RefreshOptions{Package: "3SABCD000111222"}))
	assert.Equal(t, 1, shipper.fetchCalls)
}

// TestRefreshService_Run_InternalEventCarry verifies recorded ETA events
// survive the next cycle: an identical fetch neither drops the synthetic
// event from the stored record nor notifies again.
func TestRefreshService_Run_InternalEventCarry(t *testing.T) {
	carrierEvent := domain.NewEvent("2025-10-07T21:30:00", "Zending gesorteerd", "")
	fetched := storedPackage(carrierEvent)
	fetched.EtaStart = "2025-10-09T10:00:00"
	fetched.EtaEnd = "2025-10-09T12:00:00"
	shipper := &mockShipper{result: fetched}

	svc, repo, notifier := newRefreshFixture(shipper)
	require.NoError(t, repo.Save(storedPackage(carrierEvent)))

	// The first cycle announces the delivery window.
	require.NoError(t, svc.Run(context.Background(), RefreshOptions{}))
	require.Len(t, notifier.bodies, 1)
	assert.Contains(t, notifier.bodies[0], "Geplande bezorging: 9 okt, 10u - 12u")

	saved, err := repo.Load(domain.ShipperPostNL, "3SABCD000111222")
	require.NoError(t, err)
	require.Len(t, saved.Events, 2)
	assert.True(t, saved.Events[0].IsInternal)

	// An identical fetch one cycle later: the carrier does not return the
	// synthetic event, but the stored record must keep it without a new
	// notification.
	require.NoError(t, svc.Run(context.Background(), RefreshOptions{}))
	assert.Len(t, notifier.bodies, 1)

	saved, err = repo.Load(domain.ShipperPostNL, "3SABCD000111222")
	require.NoError(t, err)
	require.Len(t, saved.Events, 2)
	assert.True(t, saved.Events[0].IsInternal)
	assert.Equal(t, "Zending gesorteerd", saved.Events[1].Description)
}

// TestRefreshService_EtaHistory verifies the internal ETA events: announced
// on first sight, re-announced on change, silent when unchanged.
func TestRefreshService_EtaHistory(t *testing.T) {
	withEta := func(start, end string) *domain.TrackingResult {
		pkg := storedPackage()
		pkg.EtaStart = start
		pkg.EtaEnd = end
		return pkg
	}

	svc, _, _ := newRefreshFixture(nil)

	t.Run("initial eta", func(t *testing.T) {
		fresh := withEta("2025-10-09T10:00:00", "2025-10-09T12:00:00")
		svc.recordEtaHistory(storedPackage(), fresh)

		require.Len(t, fresh.Events, 1)
		assert.True(t, fresh.Events[0].IsInternal)
		assert.Equal(t, "Geplande bezorging: 9 okt, 10u - 12u", fresh.Events[0].Description)
	})

	t.Run("eta change", func(t *testing.T) {
		fresh := withEta("2025-10-10T14:00:00", "")
		svc.recordEtaHistory(withEta("2025-10-09T10:00:00", "2025-10-09T12:00:00"), fresh)

		require.Len(t, fresh.Events, 1)
		assert.Equal(t, "Geplande bezorging gewijzigd naar: 10 okt, 14.00u", fresh.Events[0].Description)
	})

	t.Run("unchanged eta", func(t *testing.T) {
		fresh := withEta("2025-10-09T10:00:00", "2025-10-09T12:00:00")
		svc.recordEtaHistory(withEta("2025-10-09T10:00:00", "2025-10-09T12:00:00"), fresh)
		assert.Empty(t, fresh.Events)
	})

	t.Run("no eta", func(t *testing.T) {
		fresh := storedPackage()
		svc.recordEtaHistory(withEta("2025-10-09T10:00:00", ""), fresh)
		assert.Empty(t, fresh.Events)
	})
}
