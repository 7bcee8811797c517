package report

import (
	"context"
	"net/http"

	"estoque/internal/api/web"
	"estoque/internal/domain"
	"estoque/internal/pkg/logger"
)

// ReportService define o contrato que o Handler espera do gerador de relatório.
type ReportService interface {
	BalanceReport(ctx context.Context) ([]domain.BalanceRow, error)
}

// Handler expõe o relatório de saldos.
type Handler struct {
	Service ReportService
	Web     *web.Renderer
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de relatório.
func NewHandler(svc ReportService, renderer *web.Renderer, log logger.Logger) *Handler {
	return &Handler{Service: svc, Web: renderer, Logger: log}
}

// ReportHandler lida com GET /report.
func (h *Handler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.BalanceReport(r.Context())
	if err != nil {
		h.Web.HandleError(w, r, err)
		return
	}
	h.Web.Render(w, r, http.StatusOK, web.PageReport, "Saldo por produto e local", rows)
}

// ReportJSONHandler lida com GET /api/v1/report.
func (h *Handler) ReportJSONHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.BalanceReport(r.Context())
	h.Web.JSON(w, r, rows, err, http.StatusOK)
}
