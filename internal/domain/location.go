package domain

// Location representa um local físico ou lógico de armazenagem.
type Location struct {
	ID   string `json:"location_id"`
	Name string `json:"name"`
}

// CreateLocationRequest é o payload tipado do formulário de criação de local.
type CreateLocationRequest struct {
	ID   string `json:"location_id"`
	Name string `json:"name"`
}

// RenameLocationRequest é o payload tipado do formulário de edição de local.
type RenameLocationRequest struct {
	ID   string `json:"location_id"`
	Name string `json:"name"`
}
