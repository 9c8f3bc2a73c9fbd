package service

import (
	"net/http"

	"parceltrack/internal/core/config"
	adapter "parceltrack/internal/features/tracking/adapters"
	"parceltrack/internal/features/tracking/display"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/ports"
)

// ShipperInfo describes one selectable shipper for the add-package form.
type ShipperInfo struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Fields []domain.FieldSpec `json:"fields"`
}

// ShipperProvider hands out shipper adapters and display helpers by shipper
// id. Satisfied by ShipperFactory; services depend on the interface so tests
// can substitute controlled shippers.
type ShipperProvider interface {
	Create(shipper string) ports.Shipper
	CreateDisplayHelper(pkg *domain.TrackingResult) display.Helper
}

// ShipperFactory builds shipper adapters and display helpers by shipper id.
// Unknown ids yield nil; Ship24 is only offered when an API key is configured.
type ShipperFactory struct {
	cfg          *config.AppConfig
	client       *http.Client
	translations *adapter.DhlTranslationService
	runner       ports.CommandRunner
}

// NewShipperFactory creates a ShipperFactory. The HTTP client and translation
// service are shared by every adapter the factory hands out.
func NewShipperFactory(cfg *config.AppConfig, client *http.Client, translations *adapter.DhlTranslationService, runner ports.CommandRunner) *ShipperFactory {
	return &ShipperFactory{
		cfg:          cfg,
		client:       client,
		translations: translations,
		runner:       runner,
	}
}

// Create returns the adapter for the given shipper id, or nil for unknown ids
// and for Ship24 without a configured API key.
func (f *ShipperFactory) Create(shipper string) ports.Shipper {
	switch shipper {
	case domain.ShipperDHL:
		return adapter.NewDhlAdapter(f.client, f.translations)
	case domain.ShipperPostNL:
		return adapter.NewPostnlAdapter(f.client)
	case domain.ShipperShip24:
		if f.cfg.Ship24Enabled() {
			return adapter.NewShip24Adapter(f.client, f.cfg.Ship24.APIKey)
		}
		return nil
	case domain.ShipperYunExpress:
		return adapter.NewYunExpressAdapter(f.client)
	case domain.ShipperGofoExpress:
		return adapter.NewGofoExpressAdapter(f.cfg.Gofo.FetcherBin, f.runner)
	default:
		return nil
	}
}

// CreateDisplayHelper returns the display helper matching the package's
// shipper, or nil for unknown ids.
func (f *ShipperFactory) CreateDisplayHelper(pkg *domain.TrackingResult) display.Helper {
	switch pkg.Shipper {
	case domain.ShipperDHL:
		return display.NewDhlHelper(pkg)
	case domain.ShipperPostNL:
		return display.NewPostnlHelper(pkg)
	case domain.ShipperShip24:
		return display.NewShip24Helper(pkg)
	case domain.ShipperYunExpress:
		return display.NewYunExpressHelper(pkg)
	case domain.ShipperGofoExpress:
		return display.NewGofoExpressHelper(pkg)
	default:
		return nil
	}
}

// AvailableShippers lists the selectable shippers with the extra fields each
// one requires when adding a package.
func (f *ShipperFactory) AvailableShippers() []ShipperInfo {
	shippers := []ShipperInfo{
		{ID: domain.ShipperDHL, Name: "DHL", Fields: f.Create(domain.ShipperDHL).RequiredFields()},
		{ID: domain.ShipperPostNL, Name: "PostNL", Fields: f.Create(domain.ShipperPostNL).RequiredFields()},
		{ID: domain.ShipperYunExpress, Name: "YunExpress", Fields: f.Create(domain.ShipperYunExpress).RequiredFields()},
		{ID: domain.ShipperGofoExpress, Name: "GofoExpress", Fields: f.Create(domain.ShipperGofoExpress).RequiredFields()},
	}
	if f.cfg.Ship24Enabled() {
		shippers = append(shippers, ShipperInfo{
			ID:     domain.ShipperShip24,
			Name:   "Ship24",
			Fields: f.Create(domain.ShipperShip24).RequiredFields(),
		})
	}
	return shippers
}
