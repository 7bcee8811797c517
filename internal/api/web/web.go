package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"estoque/internal/domain"
	apperror "estoque/internal/errors"
	"estoque/internal/pkg/flash"
	"estoque/internal/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Páginas disponíveis. Cada uma é combinada com templates/layout.html.
const (
	PageEntityList   = "entity_list.html"
	PageEntityForm   = "entity_form.html"
	PageMovementList = "movement_list.html"
	PageMovementForm = "movement_form.html"
	PageReport       = "report.html"
	PageError        = "error.html"
)

var pages = []string{
	PageEntityList,
	PageEntityForm,
	PageMovementList,
	PageMovementForm,
	PageReport,
	PageError,
}

var funcs = template.FuncMap{
	"datetime": func(t time.Time) string { return t.Local().Format("2006-01-02 15:04:05") },
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
}

// PageData é o que o layout recebe: título, flash pendente e os dados da página.
type PageData struct {
	Title string
	Flash *flash.Message
	Data  interface{}
}

// ErrorPage alimenta templates/error.html.
type ErrorPage struct {
	Status  int
	Message string
}

// Renderer renderiza páginas HTML e respostas JSON e centraliza o
// tratamento de erros da camada HTTP.
type Renderer struct {
	templates map[string]*template.Template
	flash     *flash.Messenger
	logger    logger.Logger
}

// NewRenderer faz o parse de todas as páginas embutidas. Erro aqui é de build, não de runtime.
func NewRenderer(messenger *flash.Messenger, log logger.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("falha ao carregar template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return &Renderer{templates: templates, flash: messenger, logger: log}, nil
}

// Render executa a página com o status dado. A mensagem flash pendente é consumida aqui.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page, title string, data interface{}) {
	tmpl, ok := rd.templates[page]
	if !ok {
		rd.logger.Error("Template desconhecido.", fmt.Errorf("página %q não registrada", page))
		http.Error(w, "Erro interno do servidor", http.StatusInternalServerError)
		return
	}

	pd := PageData{Title: title, Data: data}
	if msg, ok := rd.flash.Pop(w, r); ok {
		pd.Flash = &msg
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", pd); err != nil {
		rd.logger.Error("Falha ao renderizar template.", err)
		http.Error(w, "Erro interno do servidor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Redirect responde 303 para path, opcionalmente gravando uma mensagem flash.
func (rd *Renderer) Redirect(w http.ResponseWriter, r *http.Request, path string, kind flash.Kind, text string) {
	if text != "" {
		if err := rd.flash.Set(w, kind, text); err != nil {
			rd.logger.Warn("Falha ao gravar mensagem flash.", map[string]interface{}{"error": err.Error()})
		}
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// NotFound renderiza a página 404.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Render(w, r, http.StatusNotFound, PageError, "Não encontrado",
		ErrorPage{Status: http.StatusNotFound, Message: "A página ou registro solicitado não existe."})
}

// HandleError renderiza a página de erro adequada ao tipo do erro.
func (rd *Renderer) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		rd.logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
		message = "Ocorreu um erro inesperado."
	}
	if status == http.StatusNotFound {
		rd.NotFound(w, r)
		return
	}
	rd.Render(w, r, status, PageError, http.StatusText(status), ErrorPage{Status: status, Message: message})
}

// HandleFormError trata a falha de um POST de formulário: erros de validação e
// de duplicidade voltam ao formulário com flash; o resto vira página de erro.
func (rd *Renderer) HandleFormError(w http.ResponseWriter, r *http.Request, err error, formPath string) {
	if apperror.IsValidation(err) || apperror.IsConflict(err) {
		_, category, message := apperror.MapToHTTPStatus(err)
		rd.logger.Debug("Formulário rejeitado.", map[string]interface{}{"path": r.URL.Path, "category": category})
		rd.Redirect(w, r, formPath, flash.KindError, message)
		return
	}
	rd.HandleError(w, r, err)
}

// JSON processa erros de serviço e envia respostas padronizadas ao cliente.
func (rd *Renderer) JSON(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				rd.logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		rd.logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		rd.logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}
