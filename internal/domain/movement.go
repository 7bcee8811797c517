package domain

import "time"

// Movement é uma transferência direcionada de quantidade de um produto.
// FromLocation nil significa entrada externa; ToLocation nil significa saída externa.
// Movimentos são imutáveis depois de gravados.
type Movement struct {
	ID           string    `json:"movement_id"`
	Timestamp    time.Time `json:"timestamp"`
	ProductID    string    `json:"product_id"`
	FromLocation *string   `json:"from_location"`
	ToLocation   *string   `json:"to_location"`
	Qty          int       `json:"qty"`
}

// MovementView é um Movement já resolvido com os nomes de produto e locais,
// usado na listagem.
type MovementView struct {
	Movement
	ProductName      string `json:"product_name"`
	FromLocationName string `json:"from_location_name,omitempty"`
	ToLocationName   string `json:"to_location_name,omitempty"`
}

// RecordMovementRequest é o payload tipado do formulário de movimentação.
// Locais vazios são tratados como ausentes (nil).
type RecordMovementRequest struct {
	ProductID    string `json:"product_id"`
	Qty          int    `json:"qty"`
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
}
