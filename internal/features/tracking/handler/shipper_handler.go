package handler

import (
	"parceltrack/internal/core/config"
	"parceltrack/internal/features/tracking/display"
	"parceltrack/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
)

// PackageListResponse wraps the sorted package listing.
type PackageListResponse struct {
	Packages []*display.Data `json:"packages"`
}

// ShipperListResponse lists the selectable shippers plus the form defaults.
type ShipperListResponse struct {
	Shippers []service.ShipperInfo `json:"shippers"`
	Defaults ShipperDefaults       `json:"defaults"`
}

// ShipperDefaults pre-fills the add-package form.
type ShipperDefaults struct {
	Country    string `json:"country"`
	AppriseURL string `json:"appriseUrl"`
}

// ShipperHandler handles the shipper listing endpoint.
type ShipperHandler struct {
	cfg     *config.AppConfig
	factory *service.ShipperFactory
}

// NewShipperHandler creates a new ShipperHandler.
func NewShipperHandler(cfg *config.AppConfig, factory *service.ShipperFactory) *ShipperHandler {
	return &ShipperHandler{
		cfg:     cfg,
		factory: factory,
	}
}

// ListShippers godoc
// @Summary List available shippers
// @Description Returns the selectable shippers with their required fields and the form defaults
// @Tags shippers
// @Produce json
// @Success 200 {object} handler.ShipperListResponse
// @Router /api/shippers [get]
func (h *ShipperHandler) ListShippers(c *fiber.Ctx) error {
	return c.JSON(ShipperListResponse{
		Shippers: h.factory.AvailableShippers(),
		Defaults: ShipperDefaults{
			Country:    h.cfg.DefaultCountry,
			AppriseURL: h.cfg.Notify.AppriseURL,
		},
	})
}
