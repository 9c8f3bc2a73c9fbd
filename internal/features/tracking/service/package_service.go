package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"parceltrack/internal/core/config"
	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/display"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/ports"

	"go.uber.org/zap"
)

var (
	// ErrMissingInput is returned when shipper or tracking code is absent.
	ErrMissingInput = errors.New("vervoerder en trackingcode zijn verplicht")
	// ErrPackageNotFound is returned when no record exists for the composite key.
	ErrPackageNotFound = errors.New("package not found")
)

// UnknownShipperError is returned when the requested shipper id is not
// offered, carrying the user-facing Dutch message with the supported list.
type UnknownShipperError struct {
	Shipper string
}

func (e *UnknownShipperError) Error() string {
	supported := strings.Join([]string{
		domain.ShipperDHL,
		domain.ShipperPostNL,
		domain.ShipperShip24,
		domain.ShipperYunExpress,
		domain.ShipperGofoExpress,
	}, ", ")
	return fmt.Sprintf("Onbekende vervoerder '%s'. Ondersteunde vervoerders zijn %s.", e.Shipper, supported)
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// sanitizeName strips markup from user-supplied names before they end up in
// notifications and the UI.
func sanitizeName(value string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(value, ""))
}

// AddPackageInput is the add-package request.
type AddPackageInput struct {
	Shipper      string `json:"shipper"`
	TrackingCode string `json:"trackingCode"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	CustomName   string `json:"customName"`
	AppriseURL   string `json:"appriseUrl"`
}

// UpdatePackageInput is the update request. Nil fields are left untouched;
// an empty string clears the field.
type UpdatePackageInput struct {
	Shipper      string  `json:"shipper"`
	TrackingCode string  `json:"trackingCode"`
	CustomName   *string `json:"customName"`
	AppriseURL   *string `json:"appriseUrl"`
	Status       *string `json:"status"`
}

// PackageService implements the package management flows: add, update,
// delete and the sorted display listing.
type PackageService struct {
	cfg           *config.AppConfig
	repo          ports.PackageRepository
	factory       ShipperProvider
	notifications *NotificationService
	logger        *zap.Logger
}

// NewPackageService creates a PackageService.
func NewPackageService(cfg *config.AppConfig, repo ports.PackageRepository, factory ShipperProvider, notifications *NotificationService) *PackageService {
	return &PackageService{
		cfg:           cfg,
		repo:          repo,
		factory:       factory,
		notifications: notifications,
		logger:        logger.Named("packages"),
	}
}

// AddPackage fetches a new package from its carrier, stores it and sends the
// initial notification. Carrier diagnostics (PostNL) propagate to the caller
// with their localized message intact.
func (s *PackageService) AddPackage(ctx context.Context, input AddPackageInput) (*domain.TrackingResult, error) {
	if input.Shipper == "" || input.TrackingCode == "" {
		return nil, ErrMissingInput
	}

	shipper := s.factory.Create(input.Shipper)
	if shipper == nil {
		s.logger.Error("Unknown shipper", zap.String("shipper", input.Shipper))
		return nil, &UnknownShipperError{Shipper: input.Shipper}
	}

	country := input.Country
	if country == "" {
		country = s.cfg.DefaultCountry
	}

	result, err := shipper.Fetch(ctx, input.TrackingCode, ports.FetchOptions{
		PostalCode: input.PostalCode,
		Country:    country,
	})
	if err != nil {
		s.logger.Error("Failed to add package",
			zap.String("tracking_code", input.TrackingCode),
			zap.Error(err),
		)
		return nil, err
	}

	if name := sanitizeName(input.CustomName); name != "" {
		result.Metadata.CustomName = name
	}
	result.Metadata.AppriseURL = strings.TrimSpace(input.AppriseURL)
	if result.Metadata.AppriseURL == "" {
		result.Metadata.AppriseURL = s.cfg.Notify.AppriseURL
	}

	if err := s.repo.Save(result); err != nil {
		return nil, fmt.Errorf("saving package %s: %w", input.TrackingCode, err)
	}
	s.logger.Info("Package added", zap.String("tracking_code", input.TrackingCode))

	// First-time discovery notifies with the full history.
	if err := s.notifications.SendPackageNotification(ctx, result); err != nil {
		s.logger.Error("Failed to send notification for new package",
			zap.String("tracking_code", input.TrackingCode),
			zap.Error(err),
		)
	}

	return result, nil
}

// UpdatePackage applies metadata edits by composite key and reports whether
// anything changed.
func (s *PackageService) UpdatePackage(input UpdatePackageInput) (bool, error) {
	if input.Shipper == "" || input.TrackingCode == "" {
		return false, ErrMissingInput
	}

	pkg, err := s.repo.Load(input.Shipper, input.TrackingCode)
	if err != nil {
		return false, err
	}
	if pkg == nil {
		return false, ErrPackageNotFound
	}

	updated := false
	if input.CustomName != nil {
		pkg.Metadata.CustomName = sanitizeName(*input.CustomName)
		updated = true
	}
	if input.AppriseURL != nil {
		pkg.Metadata.AppriseURL = strings.TrimSpace(*input.AppriseURL)
		updated = true
	}
	if input.Status != nil {
		status := domain.PackageStatus(*input.Status)
		if status != domain.PackageStatusActive && status != domain.PackageStatusInactive {
			return false, fmt.Errorf("invalid status %q", *input.Status)
		}
		pkg.Metadata.Status = status
		updated = true
	}

	if err := s.repo.Save(pkg); err != nil {
		return false, fmt.Errorf("saving package %s: %w", input.TrackingCode, err)
	}
	if updated {
		s.logger.Info("Package updated",
			zap.String("shipper", input.Shipper),
			zap.String("tracking_code", input.TrackingCode),
		)
	}
	return updated, nil
}

// DeletePackage removes one package, reporting whether it existed.
func (s *PackageService) DeletePackage(shipper, trackingCode string) (bool, error) {
	if shipper == "" || trackingCode == "" {
		return false, ErrMissingInput
	}
	return s.repo.Delete(shipper, trackingCode)
}

// ListPackages returns the display payload of every stored package, active
// packages first and then by most recent event.
func (s *PackageService) ListPackages() ([]*display.Data, error) {
	packages, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	listed := []*display.Data{}
	for _, pkg := range packages {
		helper := s.factory.CreateDisplayHelper(pkg)
		if helper == nil {
			s.logger.Warn("No display helper for package",
				zap.String("shipper", pkg.Shipper),
				zap.String("tracking_code", pkg.TrackingCode),
			)
			continue
		}
		listed = append(listed, helper.DisplayData())
	}

	SortDisplayPackages(listed)
	return listed, nil
}

// SortDisplayPackages orders packages for the UI: active before inactive,
// then by newest event descending.
func SortDisplayPackages(packages []*display.Data) {
	sort.SliceStable(packages, func(i, j int) bool {
		activeI := packages[i].Metadata.Status != string(domain.PackageStatusInactive)
		activeJ := packages[j].Metadata.Status != string(domain.PackageStatusInactive)
		if activeI != activeJ {
			return activeI
		}
		return latestEventTime(packages[i]).After(latestEventTime(packages[j]))
	})
}

func latestEventTime(pkg *display.Data) time.Time {
	if len(pkg.Events) == 0 {
		return time.Time{}
	}
	return pkg.Events[0].Time()
}
