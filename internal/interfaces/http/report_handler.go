package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/analytics"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// ReportHandler indicadores del taller.
type ReportHandler struct {
	uc *analytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de OTs e inventario
// @Description  Conteos por estado/prioridad/mecánico, tiempos de ciclo, MTTR, SLA, vencidas y top repuestos.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from         query  string  false  "Ingreso desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Ingreso hasta (YYYY-MM-DD)"
// @Param        workshop_id  query  string  false  "Taller"
// @Param        technician   query  string  false  "Mecánico"
// @Param        state        query  string  false  "Estado"
// @Success      200  {object}  dto.ReportSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	from, err := parseDateParam(c.Query("from"), false)
	if err != nil {
		return badRequest(c, "INVALID_PARAMS", "from debe ser YYYY-MM-DD o RFC3339")
	}
	to, err := parseDateParam(c.Query("to"), true)
	if err != nil {
		return badRequest(c, "INVALID_PARAMS", "to debe ser YYYY-MM-DD o RFC3339")
	}
	if from != nil && to != nil && to.Before(*from) {
		return badRequest(c, "INVALID_PARAMS", "to no puede ser anterior a from")
	}
	state := strings.ToUpper(strings.TrimSpace(c.Query("state")))
	if !analytics.ValidState(state) {
		return badRequest(c, "INVALID_PARAMS", "estado desconocido: "+state)
	}

	summary, err := h.uc.Summary(c.UserContext(), repository.ReportFilter{
		From:       from,
		To:         to,
		WorkshopID: strings.TrimSpace(c.Query("workshop_id")),
		Technician: strings.TrimSpace(c.Query("technician")),
		State:      entity.State(state),
	})
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
