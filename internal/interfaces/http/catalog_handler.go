package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/workorder"
)

// CatalogHandler vehículos y talleres (protegido).
type CatalogHandler struct {
	uc *workorder.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *workorder.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateVehicle godoc
// @Summary      Registrar vehículo
// @Tags         vehicles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVehicleRequest  true  "patente, marca, modelo"
// @Success      201   {object}  dto.VehicleDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vehicles [post]
func (h *CatalogHandler) CreateVehicle(c *fiber.Ctx) error {
	var in dto.CreateVehicleRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	v, err := h.uc.CreateVehicle(c.UserContext(), in.Plate, in.Brand, in.Model)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toVehicleDTO(v))
}

// CreateWorkshop godoc
// @Summary      Registrar taller
// @Tags         workshops
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkshopRequest  true  "nombre, dirección, capacidad"
// @Success      201   {object}  dto.WorkshopDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/workshops [post]
func (h *CatalogHandler) CreateWorkshop(c *fiber.Ctx) error {
	var in dto.CreateWorkshopRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	w, err := h.uc.CreateWorkshop(c.UserContext(), in.Name, in.Address, in.Capacity)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toWorkshopDTO(w))
}

// ListWorkshops GET /api/workshops.
func (h *CatalogHandler) ListWorkshops(c *fiber.Ctx) error {
	list, err := h.uc.ListWorkshops(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.WorkshopDTO, 0, len(list))
	for _, w := range list {
		out = append(out, toWorkshopDTO(w))
	}
	return c.JSON(fiber.Map{"total": len(out), "workshops": out})
}
