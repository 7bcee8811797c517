package movement

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"estoque/internal/api/web"
	"estoque/internal/domain"
	apperror "estoque/internal/errors"
	"estoque/internal/pkg/flash"
	"estoque/internal/pkg/logger"
)

const formPath = "/movements/add"

// MovementService define o contrato que o Handler espera da camada de Serviço.
type MovementService interface {
	RecordMovement(ctx context.Context, req domain.RecordMovementRequest) (domain.Movement, error)
	ListMovements(ctx context.Context) ([]domain.MovementView, error)
}

// ProductLister alimenta o seletor de produtos do formulário.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// LocationLister alimenta os seletores de origem e destino.
type LocationLister interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
}

// FormData alimenta templates/movement_form.html.
type FormData struct {
	Products  []domain.Product
	Locations []domain.Location
}

// Handler agrupa os handlers de movimentação.
type Handler struct {
	Service   MovementService
	Products  ProductLister
	Locations LocationLister
	Web       *web.Renderer
	Logger    logger.Logger
}

// NewHandler cria uma nova instância do Handler de movimentações.
func NewHandler(svc MovementService, products ProductLister, locations LocationLister, renderer *web.Renderer, log logger.Logger) *Handler {
	return &Handler{
		Service:   svc,
		Products:  products,
		Locations: locations,
		Web:       renderer,
		Logger:    log,
	}
}

// ListHandler lida com GET /movements.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	movements, err := h.Service.ListMovements(r.Context())
	if err != nil {
		h.Web.HandleError(w, r, err)
		return
	}
	h.Web.Render(w, r, http.StatusOK, web.PageMovementList, "Movimentações", movements)
}

// AddFormHandler lida com GET /movements/add.
func (h *Handler) AddFormHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.Products.ListProducts(ctx)
	if err != nil {
		h.Web.HandleError(w, r, err)
		return
	}
	locations, err := h.Locations.ListLocations(ctx)
	if err != nil {
		h.Web.HandleError(w, r, err)
		return
	}

	h.Web.Render(w, r, http.StatusOK, web.PageMovementForm, "Registrar movimentação", FormData{
		Products:  products,
		Locations: locations,
	})
}

// AddHandler lida com POST /movements/add.
func (h *Handler) AddHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Redirect(w, r, formPath, flash.KindError, "Formulário inválido.")
		return
	}

	qty, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("qty")))
	if err != nil {
		h.Web.HandleFormError(w, r, apperror.NewValidationError("Escolha um produto e uma quantidade positiva."), formPath)
		return
	}

	m, err := h.Service.RecordMovement(r.Context(), domain.RecordMovementRequest{
		ProductID:    r.PostFormValue("product_id"),
		Qty:          qty,
		FromLocation: r.PostFormValue("from_location"),
		ToLocation:   r.PostFormValue("to_location"),
	})
	if err != nil {
		h.Web.HandleFormError(w, r, err, formPath)
		return
	}

	h.Logger.Info("Movimentação registrada.", map[string]interface{}{"movement_id": m.ID, "product_id": m.ProductID, "qty": m.Qty})
	h.Web.Redirect(w, r, "/movements", flash.KindSuccess, "Movimentação registrada.")
}

// ListJSONHandler lida com GET /api/v1/movements.
func (h *Handler) ListJSONHandler(w http.ResponseWriter, r *http.Request) {
	movements, err := h.Service.ListMovements(r.Context())
	h.Web.JSON(w, r, movements, err, http.StatusOK)
}
