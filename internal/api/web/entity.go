package web

// EntityRow é uma linha das listagens de produtos e locais.
type EntityRow struct {
	ID   string
	Name string
}

// EntityList alimenta templates/entity_list.html.
type EntityList struct {
	AddURL   string
	EditBase string
	IDLabel  string
	Rows     []EntityRow
}

// EntityForm alimenta templates/entity_form.html (criação e edição).
// Na edição o ID é exibido mas não editável.
type EntityForm struct {
	Action    string
	CancelURL string
	IDLabel   string
	ID        string
	Name      string
	Editing   bool
}
