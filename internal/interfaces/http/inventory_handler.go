package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// InventoryHandler maneja repuestos y movimientos del libro de stock (protegido).
type InventoryHandler struct {
	ledger   *inventory.LedgerUseCase
	parts    *inventory.PartUseCase
	lowStock *inventory.LowStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, parts *inventory.PartUseCase, lowStock *inventory.LowStockUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, parts: parts, lowStock: lowStock}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  IN/OUT con cantidad positiva, ADJUST con signo. Toda salida requiere order_id.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "part_id, kind, quantity, reason, order_id"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.ledger.ApplyMovement(c.UserContext(), inventory.MovementInput{
		PartID:   in.PartID,
		Kind:     entity.MovementKind(strings.ToUpper(strings.TrimSpace(in.Kind))),
		Quantity: in.Quantity,
		Reason:   in.Reason,
		OrderID:  in.OrderID,
		Actor:    userID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(res))
}

// CreatePart godoc
// @Summary      Crear repuesto
// @Tags         parts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartRequest  true  "code, description, unit, min_quantity"
// @Success      201   {object}  dto.PartDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/parts [post]
func (h *InventoryHandler) CreatePart(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	p, err := h.parts.CreatePart(c.UserContext(), inventory.PartInput{
		Code:        in.Code,
		Description: in.Description,
		Unit:        in.Unit,
		MinQuantity: in.MinQuantity,
	}, userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toPartDTO(p))
}

// UpdatePart PUT /api/parts/:id. No modifica el stock: eso solo ocurre con movimientos.
func (h *InventoryHandler) UpdatePart(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	p, err := h.parts.UpdatePart(c.UserContext(), c.Params("id"), inventory.PartUpdate{
		Description: in.Description,
		Unit:        in.Unit,
		MinQuantity: in.MinQuantity,
		Active:      in.Active,
	}, userID)
	if err != nil {
		return err
	}
	return c.JSON(toPartDTO(p))
}

// GetPart GET /api/parts/:id.
func (h *InventoryHandler) GetPart(c *fiber.Ctx) error {
	p, err := h.parts.GetPart(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toPartDTO(p))
}

// ListParts godoc
// @Summary      Listar repuestos
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        limit        query  int   false  "default 20"
// @Param        offset       query  int   false  "default 0"
// @Param        active_only  query  bool  false  "solo activos"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/parts [get]
func (h *InventoryHandler) ListParts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_PARAMS", "parámetros de consulta inválidos")
	}
	page.DefaultPage()
	list, err := h.parts.ListParts(c.UserContext(), c.QueryBool("active_only", false), page.Limit, page.Offset)
	if err != nil {
		return err
	}
	out := make([]dto.PartDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toPartDTO(p))
	}
	return c.JSON(fiber.Map{
		"parts": out,
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// ListPartMovements GET /api/parts/:id/movements?from=&to=&limit=&offset=.
func (h *InventoryHandler) ListPartMovements(c *fiber.Ctx) error {
	from, err := parseDateParam(c.Query("from"), false)
	if err != nil {
		return badRequest(c, "INVALID_PARAMS", "from debe ser YYYY-MM-DD o RFC3339")
	}
	to, err := parseDateParam(c.Query("to"), true)
	if err != nil {
		return badRequest(c, "INVALID_PARAMS", "to debe ser YYYY-MM-DD o RFC3339")
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_PARAMS", "parámetros de consulta inválidos")
	}
	page.DefaultPage()
	list, err := h.parts.ListMovementsByPart(c.UserContext(), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total":     len(list),
		"movements": toMovementDTOs(list),
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// LowStock godoc
// @Summary      Repuestos en stock mínimo
// @Description  Repuestos activos con stock actual <= mínimo, con cantidad sugerida de reposición.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.lowStock.ListLowStock(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"total": len(list), "items": list})
}
