package product

import (
	"context"
	"net/http"
	"net/url"

	"estoque/internal/api/web"
	"estoque/internal/domain"
	"estoque/internal/pkg/flash"
	"estoque/internal/pkg/logger"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error)
	RenameProduct(ctx context.Context, req domain.RenameProductRequest) (domain.Product, error)
}

// Handler agrupa todos os métodos de Handler do produto.
type Handler struct {
	Service ProductService
	Web     *web.Renderer
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProductService, renderer *web.Renderer, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Web:     renderer,
		Logger:  log,
	}
}

// ListHandler lida com GET /products.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListProducts(r.Context())
	if err != nil {
		h.Web.HandleError(w, r, err)
		return
	}

	rows := make([]web.EntityRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, web.EntityRow{ID: p.ID, Name: p.Name})
	}
	h.Web.Render(w, r, http.StatusOK, web.PageEntityList, "Produtos", web.EntityList{
		AddURL:   "/products/add",
		EditBase: "/products/edit/",
		IDLabel:  "ID do produto",
		Rows:     rows,
	})
}

// AddFormHandler lida com GET /products/add.
func (h *Handler) AddFormHandler(w http.ResponseWriter, r *http.Request) {
	h.Web.Render(w, r, http.StatusOK, web.PageEntityForm, "Novo produto", web.EntityForm{
		Action:    "/products/add",
		CancelURL: "/products",
		IDLabel:   "ID do produto",
	})
}

// AddHandler lida com POST /products/add.
func (h *Handler) AddHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Redirect(w, r, "/products/add", flash.KindError, "Formulário inválido.")
		return
	}

	created, err := h.Service.CreateProduct(r.Context(), domain.CreateProductRequest{
		ID:   r.PostFormValue("id"),
		Name: r.PostFormValue("name"),
	})
	if err != nil {
		h.Web.HandleFormError(w, r, err, "/products/add")
		return
	}

	h.Logger.Info("Produto criado.", map[string]interface{}{"product_id": created.ID})
	h.Web.Redirect(w, r, "/products", flash.KindSuccess, "Produto \""+created.Name+"\" criado.")
}

// EditFormHandler lida com GET /products/edit/{id}.
func (h *Handler) EditFormHandler(w http.ResponseWriter, r *http.Request) {
	product, err := h.Service.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.Web.HandleError(w, r, err)
		return
	}

	h.Web.Render(w, r, http.StatusOK, web.PageEntityForm, "Editar produto", web.EntityForm{
		Action:    editPath(product.ID),
		CancelURL: "/products",
		IDLabel:   "ID do produto",
		ID:        product.ID,
		Name:      product.Name,
		Editing:   true,
	})
}

// EditHandler lida com POST /products/edit/{id}.
func (h *Handler) EditHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.Web.Redirect(w, r, editPath(id), flash.KindError, "Formulário inválido.")
		return
	}

	updated, err := h.Service.RenameProduct(r.Context(), domain.RenameProductRequest{
		ID:   id,
		Name: r.PostFormValue("name"),
	})
	if err != nil {
		h.Web.HandleFormError(w, r, err, editPath(id))
		return
	}

	h.Logger.Info("Produto renomeado.", map[string]interface{}{"product_id": updated.ID})
	h.Web.Redirect(w, r, "/products", flash.KindSuccess, "Produto \""+updated.Name+"\" atualizado.")
}

// ListJSONHandler lida com GET /api/v1/products.
func (h *Handler) ListJSONHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListProducts(r.Context())
	h.Web.JSON(w, r, products, err, http.StatusOK)
}

func editPath(id string) string {
	return "/products/edit/" + url.PathEscape(id)
}
