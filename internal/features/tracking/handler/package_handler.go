package handler

import (
	"errors"

	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
)

// PackageHandler handles the package management HTTP endpoints.
type PackageHandler struct {
	packages *service.PackageService
}

// NewPackageHandler creates a new PackageHandler.
func NewPackageHandler(packages *service.PackageService) *PackageHandler {
	return &PackageHandler{
		packages: packages,
	}
}

// StatusResponse is the mutation result envelope. Message is user-facing and
// localized.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	RayID   string `json:"ray_id,omitempty"`
}

// packageKeyInput identifies one package by its composite key.
type packageKeyInput struct {
	Shipper      string `json:"shipper"`
	TrackingCode string `json:"trackingCode"`
}

func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// ListPackages godoc
// @Summary List all tracked packages
// @Description Returns display data for every stored package, active packages first
// @Tags packages
// @Produce json
// @Success 200 {object} handler.PackageListResponse
// @Failure 500 {object} handler.StatusResponse
// @Router /api/packages [get]
func (h *PackageHandler) ListPackages(c *fiber.Ctx) error {
	packages, err := h.packages.ListPackages()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(StatusResponse{
			Success: false,
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}
	return c.JSON(PackageListResponse{Packages: packages})
}

// AddPackage godoc
// @Summary Add a package
// @Description Fetches the package from its carrier, stores it and sends the initial notification
// @Tags packages
// @Accept json
// @Produce json
// @Param package body service.AddPackageInput true "Package to add"
// @Success 200 {object} handler.StatusResponse
// @Failure 400 {object} handler.StatusResponse
// @Failure 502 {object} handler.StatusResponse
// @Router /api/packages [post]
func (h *PackageHandler) AddPackage(c *fiber.Ctx) error {
	var input service.AddPackageInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(StatusResponse{
			Success: false,
			Message: "Ongeldige aanvraag.",
			RayID:   rayID(c),
		})
	}

	result, err := h.packages.AddPackage(c.UserContext(), input)
	if err != nil {
		return h.addError(c, err)
	}

	return c.JSON(StatusResponse{
		Success: true,
		Message: "Pakket " + result.TrackingCode + " succesvol toegevoegd.",
	})
}

// addError maps add-package failures to a status code while keeping the
// localized message intact.
func (h *PackageHandler) addError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadGateway

	var unknownErr *service.UnknownShipperError
	var carrierErr *domain.CarrierError
	switch {
	case errors.Is(err, service.ErrMissingInput):
		status = fiber.StatusBadRequest
		err = errors.New("Vervoerder en trackingcode zijn verplicht.")
	case errors.As(err, &unknownErr):
		status = fiber.StatusBadRequest
	case errors.As(err, &carrierErr):
		// The carrier diagnostic is already user-facing Dutch.
		status = fiber.StatusNotFound
	}

	return c.Status(status).JSON(StatusResponse{
		Success: false,
		Message: err.Error(),
		RayID:   rayID(c),
	})
}

// UpdatePackage godoc
// @Summary Update package metadata
// @Description Edits custom name, notification target or active status by composite key
// @Tags packages
// @Accept json
// @Produce json
// @Param package body service.UpdatePackageInput true "Fields to update"
// @Success 200 {object} handler.StatusResponse
// @Failure 400 {object} handler.StatusResponse
// @Failure 404 {object} handler.StatusResponse
// @Router /api/packages [put]
func (h *PackageHandler) UpdatePackage(c *fiber.Ctx) error {
	var input service.UpdatePackageInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(StatusResponse{
			Success: false,
			Message: "Ongeldige aanvraag.",
			RayID:   rayID(c),
		})
	}

	updated, err := h.packages.UpdatePackage(input)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrMissingInput):
			status = fiber.StatusBadRequest
		case errors.Is(err, service.ErrPackageNotFound):
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(StatusResponse{
			Success: false,
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	key := input.Shipper + "_" + input.TrackingCode
	message := "No changes detected for " + key + "."
	if updated {
		message = "Package " + key + " updated successfully."
	}
	return c.JSON(StatusResponse{Success: true, Message: message})
}

// DeletePackage godoc
// @Summary Delete a package
// @Description Removes one package by composite key
// @Tags packages
// @Accept json
// @Produce json
// @Param package body handler.packageKeyInput true "Package to delete"
// @Success 200 {object} handler.StatusResponse
// @Failure 400 {object} handler.StatusResponse
// @Failure 404 {object} handler.StatusResponse
// @Router /api/packages [delete]
func (h *PackageHandler) DeletePackage(c *fiber.Ctx) error {
	var input packageKeyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(StatusResponse{
			Success: false,
			Message: "Ongeldige aanvraag.",
			RayID:   rayID(c),
		})
	}

	removed, err := h.packages.DeletePackage(input.Shipper, input.TrackingCode)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, service.ErrMissingInput) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(StatusResponse{
			Success: false,
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(StatusResponse{
			Success: false,
			Message: "Package " + input.TrackingCode + " not found.",
			RayID:   rayID(c),
		})
	}
	return c.JSON(StatusResponse{
		Success: true,
		Message: "Package " + input.TrackingCode + " deleted successfully.",
	})
}
