package location

import (
	"context"
	"net/http"
	"net/url"

	"estoque/internal/api/web"
	"estoque/internal/domain"
	"estoque/internal/pkg/flash"
	"estoque/internal/pkg/logger"
)

// LocationService define o contrato que o Handler espera da camada de Serviço.
type LocationService interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
	GetLocation(ctx context.Context, id string) (domain.Location, error)
	CreateLocation(ctx context.Context, req domain.CreateLocationRequest) (domain.Location, error)
	RenameLocation(ctx context.Context, req domain.RenameLocationRequest) (domain.Location, error)
}

// Handler agrupa todos os métodos de Handler do local.
type Handler struct {
	Service LocationService
	Web     *web.Renderer
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc LocationService, renderer *web.Renderer, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Web:     renderer,
		Logger:  log,
	}
}

// ListHandler lida com GET /locations.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Service.ListLocations(r.Context())
	if err != nil {
		h.Web.HandleError(w, r, err)
		return
	}

	rows := make([]web.EntityRow, 0, len(locations))
	for _, l := range locations {
		rows = append(rows, web.EntityRow{ID: l.ID, Name: l.Name})
	}
	h.Web.Render(w, r, http.StatusOK, web.PageEntityList, "Locais", web.EntityList{
		AddURL:   "/locations/add",
		EditBase: "/locations/edit/",
		IDLabel:  "ID do local",
		Rows:     rows,
	})
}

// AddFormHandler lida com GET /locations/add.
func (h *Handler) AddFormHandler(w http.ResponseWriter, r *http.Request) {
	h.Web.Render(w, r, http.StatusOK, web.PageEntityForm, "Novo local", web.EntityForm{
		Action:    "/locations/add",
		CancelURL: "/locations",
		IDLabel:   "ID do local",
	})
}

// AddHandler lida com POST /locations/add.
func (h *Handler) AddHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Redirect(w, r, "/locations/add", flash.KindError, "Formulário inválido.")
		return
	}

	created, err := h.Service.CreateLocation(r.Context(), domain.CreateLocationRequest{
		ID:   r.PostFormValue("id"),
		Name: r.PostFormValue("name"),
	})
	if err != nil {
		h.Web.HandleFormError(w, r, err, "/locations/add")
		return
	}

	h.Logger.Info("Local criado.", map[string]interface{}{"location_id": created.ID})
	h.Web.Redirect(w, r, "/locations", flash.KindSuccess, "Local \""+created.Name+"\" criado.")
}

// EditFormHandler lida com GET /locations/edit/{id}.
func (h *Handler) EditFormHandler(w http.ResponseWriter, r *http.Request) {
	location, err := h.Service.GetLocation(r.Context(), r.PathValue("id"))
	if err != nil {
		h.Web.HandleError(w, r, err)
		return
	}

	h.Web.Render(w, r, http.StatusOK, web.PageEntityForm, "Editar local", web.EntityForm{
		Action:    editPath(location.ID),
		CancelURL: "/locations",
		IDLabel:   "ID do local",
		ID:        location.ID,
		Name:      location.Name,
		Editing:   true,
	})
}

// EditHandler lida com POST /locations/edit/{id}.
func (h *Handler) EditHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.Web.Redirect(w, r, editPath(id), flash.KindError, "Formulário inválido.")
		return
	}

	updated, err := h.Service.RenameLocation(r.Context(), domain.RenameLocationRequest{
		ID:   id,
		Name: r.PostFormValue("name"),
	})
	if err != nil {
		h.Web.HandleFormError(w, r, err, editPath(id))
		return
	}

	h.Logger.Info("Local renomeado.", map[string]interface{}{"location_id": updated.ID})
	h.Web.Redirect(w, r, "/locations", flash.KindSuccess, "Local \""+updated.Name+"\" atualizado.")
}

// ListJSONHandler lida com GET /api/v1/locations.
func (h *Handler) ListJSONHandler(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Service.ListLocations(r.Context())
	h.Web.JSON(w, r, locations, err, http.StatusOK)
}

func editPath(id string) string {
	return "/locations/edit/" + url.PathEscape(id)
}
