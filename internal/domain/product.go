package domain

// Tamanhos máximos das colunas (VARCHAR) nas tabelas.
const (
	MaxIDLength   = 36
	MaxNameLength = 120
)

// Product representa um item do catálogo cujo estoque é movimentado entre locais.
// É criado com ID explícito ou gerado e só pode ser renomeado.
type Product struct {
	ID   string `json:"product_id"`
	Name string `json:"name"`
}

// CreateProductRequest é o payload tipado do formulário de criação de produto.
// ID vazio significa que o sistema deve gerar um UUID.
type CreateProductRequest struct {
	ID   string `json:"product_id"`
	Name string `json:"name"`
}

// RenameProductRequest é o payload tipado do formulário de edição de produto.
type RenameProductRequest struct {
	ID   string `json:"product_id"`
	Name string `json:"name"`
}
