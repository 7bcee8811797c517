package domain

// BalanceKey identifica o par (produto, local) de um saldo agregado.
type BalanceKey struct {
	ProductID  string
	LocationID string
}

// BalanceRow é uma linha do relatório de saldos.
// Balance pode ser negativo quando as saídas registradas superam as entradas.
type BalanceRow struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product"`
	LocationID   string `json:"location_id"`
	LocationName string `json:"location"`
	Balance      int64  `json:"balance"`
}
