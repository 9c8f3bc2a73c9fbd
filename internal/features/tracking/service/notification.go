package service

import (
	"context"
	"fmt"
	"strings"

	"parceltrack/internal/core/config"
	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/dutchdate"
	"parceltrack/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// Notifications list at most this many events before truncating.
const notificationEventLimit = 5

// NotificationService composes and dispatches the per-package update
// notification.
type NotificationService struct {
	cfg      *config.AppConfig
	notifier ports.Notifier
	factory  ShipperProvider
	logger   *zap.Logger
}

// NewNotificationService creates a NotificationService dispatching through
// the given notifier.
func NewNotificationService(cfg *config.AppConfig, notifier ports.Notifier, factory ShipperProvider) *NotificationService {
	return &NotificationService{
		cfg:      cfg,
		notifier: notifier,
		factory:  factory,
		logger:   logger.Named("notify"),
	}
}

// SendPackageNotification composes and sends the update message for one
// package. The package's event list is expected to already be reduced to what
// the notification should show. Without a target URL the notification is
// skipped silently; a package should never fail to refresh over notification
// config.
func (s *NotificationService) SendPackageNotification(ctx context.Context, pkg *domain.TrackingResult) error {
	target := s.cfg.Notify.AppriseURL
	if pkg.Metadata != nil && pkg.Metadata.AppriseURL != "" {
		target = pkg.Metadata.AppriseURL
	}
	if target == "" {
		s.logger.Warn("No apprise URL for package, skipping notification",
			zap.String("tracking_code", pkg.TrackingCode))
		return nil
	}

	title := "ParcelTrack Update: " + pkg.TrackingCode
	if pkg.Metadata != nil && pkg.Metadata.CustomName != "" {
		title = "ParcelTrack Update: " + pkg.Metadata.CustomName
	}

	return s.notifier.Notify(ctx, title, s.composeBody(pkg), target)
}

// composeBody renders the Dutch notification body: status summary, newest
// events, carrier deep link and the ParcelTrack URL.
func (s *NotificationService) composeBody(pkg *domain.TrackingResult) string {
	var body strings.Builder

	body.WriteString("De status voor je pakket is bijgewerkt:\n")
	fmt.Fprintf(&body, "Vervoerder: %s\n", pkg.Shipper)
	fmt.Fprintf(&body, "Trackingcode: %s\n", pkg.TrackingCode)
	fmt.Fprintf(&body, "Status: %s\n\n", pkg.PackageStatus)

	body.WriteString("Laatste paar gebeurtenissen:\n")
	if len(pkg.Events) == 0 {
		body.WriteString("Geen gebeurtenissen beschikbaar.\n")
	} else {
		shown := pkg.Events
		if len(shown) > notificationEventLimit {
			shown = shown[:notificationEventLimit]
		}
		for _, event := range shown {
			location := ""
			if event.Location != "" {
				location = " @ " + event.Location
			}
			fmt.Fprintf(&body, "[%s] %s%s\n", dutchdate.Format(event.Timestamp), event.Description, location)
		}
		if len(pkg.Events) > notificationEventLimit {
			body.WriteString("...en meer.\n")
		}
	}

	if shipper := s.factory.Create(pkg.Shipper); shipper != nil {
		if link := shipper.ShipperLink(pkg); link != "" {
			fmt.Fprintf(&body, "\nBekijk op website van vervoerder: %s\n", link)
		}
	}
	fmt.Fprintf(&body, "\nParcelTrack: %s", s.cfg.ParcelTrackURL)

	return body.String()
}
