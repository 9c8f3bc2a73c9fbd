package service

import (
	"context"
	"errors"
	"time"

	"parceltrack/internal/core/config"
	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/dutchdate"
	"parceltrack/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// RefreshOptions steer one refresh run.
type RefreshOptions struct {
	// Force refreshes inactive packages too and notifies even without changes.
	Force bool
	// NoNotification suppresses all notifications for this run.
	NoNotification bool
	// Package limits the run to one tracking code. Overrides the active-only
	// filter.
	Package string
}

// RefreshService re-fetches stored packages and decides per package whether
// to notify. Packages are processed sequentially; a failed fetch leaves the
// stored record untouched until the next run.
type RefreshService struct {
	cfg           *config.AppConfig
	repo          ports.PackageRepository
	factory       ShipperProvider
	notifications *NotificationService
	logger        *zap.Logger
	now           func() time.Time
}

// NewRefreshService creates a RefreshService.
func NewRefreshService(cfg *config.AppConfig, repo ports.PackageRepository, factory ShipperProvider, notifications *NotificationService) *RefreshService {
	return &RefreshService{
		cfg:           cfg,
		repo:          repo,
		factory:       factory,
		notifications: notifications,
		logger:        logger.Named("refresh"),
		now:           time.Now,
	}
}

// Run executes one refresh cycle over the selected packages.
func (s *RefreshService) Run(ctx context.Context, opts RefreshOptions) error {
	all, err := s.repo.GetAll()
	if err != nil {
		return err
	}

	selected := s.selectPackages(all, opts)
	s.logger.Info("Starting refresh run",
		zap.Int("total", len(all)),
		zap.Int("selected", len(selected)),
		zap.Bool("force", opts.Force),
	)

	for _, old := range selected {
		s.refreshPackage(ctx, old, opts)
	}

	s.logger.Info("Refresh run finished")
	return nil
}

// selectPackages applies the package filter, or the active-only default when
// not forcing.
func (s *RefreshService) selectPackages(all []*domain.TrackingResult, opts RefreshOptions) []*domain.TrackingResult {
	if opts.Package != "" {
		selected := []*domain.TrackingResult{}
		for _, pkg := range all {
			if pkg.TrackingCode == opts.Package {
				selected = append(selected, pkg)
			}
		}
		s.logger.Info("Filtering to single package",
			zap.String("tracking_code", opts.Package),
			zap.Int("matches", len(selected)),
		)
		return selected
	}

	if opts.Force {
		return all
	}

	selected := []*domain.TrackingResult{}
	for _, pkg := range all {
		if pkg.Metadata.IsActive() {
			selected = append(selected, pkg)
		}
	}
	return selected
}

// refreshPackage runs the per-package state machine: fetch, metadata carry,
// delivered transition, ETA history, notify decision, persist.
func (s *RefreshService) refreshPackage(ctx context.Context, old *domain.TrackingResult, opts RefreshOptions) {
	log := s.logger.With(
		zap.String("shipper", old.Shipper),
		zap.String("tracking_code", old.TrackingCode),
	)
	log.Info("Updating package")

	shipper := s.factory.Create(old.Shipper)
	if shipper == nil {
		log.Error("No shipper available for package")
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.FetchTimeoutSeconds)*time.Second)
	defer cancel()

	fresh, err := shipper.Fetch(fetchCtx, old.TrackingCode, ports.FetchOptions{
		PostalCode: old.PostalCode,
		Country:    old.Country,
	})
	if err != nil {
		var carrierErr *domain.CarrierError
		if errors.As(err, &carrierErr) {
			log.Error("Carrier reported a data problem, skipping", zap.String("message", carrierErr.Message))
		} else {
			log.Error("Failed to fetch new data, skipping", zap.Error(err))
		}
		return
	}

	fresh.Metadata = old.Metadata
	carryInternalEvents(old, fresh)

	if fresh.IsCompleted && fresh.Metadata.IsActive() {
		fresh.Metadata.MarkInactive()
		log.Info("Package delivered, set status to inactive")
	}

	s.recordEtaHistory(old, fresh)

	statusChanged := fresh.PackageStatus != old.PackageStatus
	historyChanged := len(fresh.Events) != len(old.Events)

	if (statusChanged || historyChanged || opts.Force) && !opts.NoNotification {
		if statusChanged {
			log.Info("Status changed",
				zap.String("old", old.PackageStatus),
				zap.String("new", fresh.PackageStatus),
			)
		} else if historyChanged {
			log.Info("Event history changed",
				zap.Int("old_events", len(old.Events)),
				zap.Int("new_events", len(fresh.Events)),
			)
		} else {
			log.Info("Force-notifying unchanged package", zap.String("status", fresh.PackageStatus))
		}

		// Notify with only the events the stored record has not seen yet.
		if err := s.notifications.SendPackageNotification(ctx, fresh.Diff(old)); err != nil {
			log.Error("Failed to send notification", zap.Error(err))
		}
	} else {
		log.Debug("Status unchanged", zap.String("status", fresh.PackageStatus))
	}

	// Persist regardless of the notify outcome so the next cycle diffs
	// against current truth.
	if err := s.repo.Save(fresh); err != nil {
		log.Error("Failed to save package", zap.Error(err))
	}
}

// carryInternalEvents copies the stored snapshot's synthetic events onto the
// fresh fetch. Carriers never return them, so without the carry every refresh
// would drop recorded ETA history and the event-count comparison would flag an
// unchanged package.
func carryInternalEvents(old, fresh *domain.TrackingResult) {
	seen := make(map[string]bool, len(fresh.Events))
	for _, event := range fresh.Events {
		seen[event.Key()] = true
	}

	carried := false
	for _, event := range old.Events {
		if event.IsInternal && !seen[event.Key()] {
			fresh.AddEvent(event)
			carried = true
		}
	}
	if carried {
		fresh.SortEventsDesc()
	}
}

// recordEtaHistory appends an internal event when the carrier announces a
// delivery window for the first time or moves an announced one.
func (s *RefreshService) recordEtaHistory(old, fresh *domain.TrackingResult) {
	if fresh.EtaStart == "" {
		return
	}

	initial := old.EtaStart == ""
	changed := old.EtaStart != fresh.EtaStart || old.EtaEnd != fresh.EtaEnd
	if !initial && !changed {
		return
	}

	window := dutchdate.Format(fresh.EtaStart)
	if fresh.EtaEnd != "" {
		window = dutchdate.FormatRange(fresh.EtaStart, fresh.EtaEnd)
	}

	prefix := "Geplande bezorging gewijzigd naar: "
	if initial {
		prefix = "Geplande bezorging: "
	}

	fresh.AddEvent(domain.NewInternalEvent(s.now().Format("2006-01-02T15:04:05"), prefix+window))
	fresh.SortEventsDesc()
}
