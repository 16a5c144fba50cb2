package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/workorder"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// WorkOrderHandler maneja las peticiones HTTP de Órdenes de Trabajo (protegido).
type WorkOrderHandler struct {
	uc    *workorder.UseCase
	parts *inventory.PartUseCase
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(uc *workorder.UseCase, parts *inventory.PartUseCase) *WorkOrderHandler {
	return &WorkOrderHandler{uc: uc, parts: parts}
}

// Create godoc
// @Summary      Ingresar OT
// @Description  Crea la OT en INGRESADO y abre su primer tramo de historial.
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkOrderRequest  true  "folio, vehicle_id, workshop_id"
// @Success      201   {object}  dto.WorkOrderDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-orders [post]
func (h *WorkOrderHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	o, err := h.uc.Create(c.UserContext(), workorder.CreateOrderInput{
		Folio:       in.Folio,
		VehicleID:   strings.TrimSpace(in.VehicleID),
		WorkshopID:  strings.TrimSpace(in.WorkshopID),
		Priority:    entity.Priority(strings.ToUpper(strings.TrimSpace(in.Priority))),
		DueDate:     in.DueDate,
		Technician:  in.Technician,
		Description: in.Description,
	}, userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toWorkOrderDTO(o))
}

// Get godoc
// @Summary      Detalle de OT
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la OT"
// @Success      200  {object}  dto.WorkOrderDetailDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id} [get]
func (h *WorkOrderHandler) Get(c *fiber.Ctx) error {
	d, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toDetailDTO(d))
}

// Metrics GET /api/work-orders/:id/metrics.
func (h *WorkOrderHandler) Metrics(c *fiber.Ctx) error {
	m, err := h.uc.Metrics(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toMetricsDTO(*m))
}

// Transition godoc
// @Summary      Cambiar estado de la OT
// @Description  Cierra la pausa abierta si existe, cierra el tramo actual y abre el del nuevo estado.
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la OT"
// @Param        body  body  dto.TransitionRequest  true  "estado destino"
// @Success      200   {object}  dto.WorkOrderDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/transitions [post]
func (h *WorkOrderHandler) Transition(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	target := entity.State(strings.ToUpper(strings.TrimSpace(in.Target)))
	o, err := h.uc.Transition(c.UserContext(), c.Params("id"), target, userID)
	if err != nil {
		return err
	}
	return c.JSON(toWorkOrderDTO(o))
}

// StartPause POST /api/work-orders/:id/pauses.
func (h *WorkOrderHandler) StartPause(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.StartPauseRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	p, err := h.uc.StartPause(c.UserContext(), c.Params("id"), in.Reason, userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toPauseDTO(p))
}

// EndPause DELETE /api/work-orders/:id/pauses/open.
func (h *WorkOrderHandler) EndPause(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	p, err := h.uc.EndPause(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(toPauseDTO(p))
}

// UpdatePlanning PATCH /api/work-orders/:id/planning.
func (h *WorkOrderHandler) UpdatePlanning(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.PlanningRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	var plan workorder.PlanningInput
	if in.Priority != nil {
		p := entity.Priority(strings.ToUpper(strings.TrimSpace(*in.Priority)))
		plan.Priority = &p
	}
	plan.DueDate = in.DueDate
	plan.Technician = in.Technician

	o, err := h.uc.UpdatePlanning(c.UserContext(), c.Params("id"), plan, userID)
	if err != nil {
		return err
	}
	return c.JSON(toWorkOrderDTO(o))
}

// ListMovements GET /api/work-orders/:id/movements: consumos de repuestos de la OT.
func (h *WorkOrderHandler) ListMovements(c *fiber.Ctx) error {
	list, err := h.parts.ListMovementsByOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": toMovementDTOs(list)})
}
