package movementrepo

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"estoque/internal/domain"
	apperror "estoque/internal/errors"
	"estoque/internal/pkg/database"
	"estoque/internal/pkg/logger"
)

// MovementRepository acessa o log de movimentações (tabela product_movement).
// O log é somente de inserção: não há UPDATE nem DELETE.
type MovementRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewMovementRepository cria e retorna uma nova instância do Repositório de Movimentações.
func NewMovementRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *MovementRepository {
	return &MovementRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save grava uma movimentação. O timestamp é atribuído pelo banco (clock_timestamp()).
// Violações de FK ou CHECK viram ValidationError: o banco é a autoridade sobre referências.
func (r *MovementRepository) Save(ctx context.Context, m domain.Movement) (domain.Movement, error) {
	r.logger.Debug("Gravando movimentação.", map[string]interface{}{"movement_id": m.ID, "product_id": m.ProductID, "qty": m.Qty})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO product_movement (movement_id, product_id, from_location, to_location, qty)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING timestamp`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		m.ID, m.ProductID, nullable(m.FromLocation), nullable(m.ToLocation), m.Qty,
	).Scan(&m.Timestamp)
	if err != nil {
		switch {
		case database.IsForeignKeyViolation(err):
			r.logger.Info("Movimentação rejeitada: referência inexistente.", map[string]interface{}{"constraint": database.ConstraintName(err)})
			return domain.Movement{}, apperror.NewValidationError(foreignKeyMessage(database.ConstraintName(err)))
		case database.IsCheckViolation(err), database.IsNumericOutOfRange(err):
			return domain.Movement{}, apperror.NewValidationError("Movimentação inválida: quantidade positiva e ao menos um local são obrigatórios.")
		case database.IsUniqueViolation(err):
			return domain.Movement{}, apperror.NewDuplicateKeyError("ID de movimentação já existe.", err)
		}
		r.logger.Error("Falha ao inserir movimentação no DB.", err)
		return domain.Movement{}, apperror.NewDBError("Falha ao gravar movimentação", err)
	}

	r.logger.Info("Movimentação gravada com sucesso.", map[string]interface{}{"movement_id": m.ID, "product_id": m.ProductID, "qty": m.Qty})
	return m, nil
}

// FindAll lista as movimentações da mais recente para a mais antiga, já com os nomes resolvidos.
func (r *MovementRepository) FindAll(ctx context.Context) ([]domain.MovementView, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT m.movement_id, m.timestamp, m.product_id, m.from_location, m.to_location, m.qty,
               p.name, COALESCE(lf.name, ''), COALESCE(lt.name, '')
        FROM product_movement m
        JOIN product p ON p.product_id = m.product_id
        LEFT JOIN location lf ON lf.location_id = m.from_location
        LEFT JOIN location lt ON lt.location_id = m.to_location
        ORDER BY m.timestamp DESC, m.seq DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll de movimentações.", err)
		return nil, apperror.NewDBError("Falha ao listar movimentações", err)
	}
	defer rows.Close()

	movements := make([]domain.MovementView, 0)
	for rows.Next() {
		var (
			v        domain.MovementView
			from, to sql.NullString
		)
		if err := rows.Scan(
			&v.ID, &v.Timestamp, &v.ProductID, &from, &to, &v.Qty,
			&v.ProductName, &v.FromLocationName, &v.ToLocationName,
		); err != nil {
			return nil, apperror.NewDBError("Falha ao mapear movimentações do DB", err)
		}
		v.FromLocation = fromNull(from)
		v.ToLocation = fromNull(to)
		movements = append(movements, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de movimentações", err)
	}

	return movements, nil
}

// SumBalances calcula, em uma única agregação, o saldo líquido de cada par (produto, local)
// que possui movimentação: entradas (to_location) menos saídas (from_location).
// Pares sem movimentação não aparecem no mapa.
func (r *MovementRepository) SumBalances(ctx context.Context) (map[domain.BalanceKey]int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT product_id, location_id, SUM(delta)::BIGINT
        FROM (
            SELECT product_id, to_location AS location_id, qty AS delta
            FROM product_movement
            WHERE to_location IS NOT NULL
            UNION ALL
            SELECT product_id, from_location AS location_id, -qty AS delta
            FROM product_movement
            WHERE from_location IS NOT NULL
        ) AS legs
        GROUP BY product_id, location_id`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao agregar saldos.", err)
		return nil, apperror.NewDBError("Falha ao calcular saldos", err)
	}
	defer rows.Close()

	balances := make(map[domain.BalanceKey]int64)
	for rows.Next() {
		var (
			key     domain.BalanceKey
			balance int64
		)
		if err := rows.Scan(&key.ProductID, &key.LocationID, &balance); err != nil {
			return nil, apperror.NewDBError("Falha ao mapear saldos do DB", err)
		}
		balances[key] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de saldos", err)
	}

	r.logger.Debug("Saldos agregados.", map[string]interface{}{"pairs": len(balances)})
	return balances, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func foreignKeyMessage(constraint string) string {
	switch {
	case strings.Contains(constraint, "product_id"):
		return "Produto informado não existe."
	case strings.Contains(constraint, "from_location"):
		return "Local de origem informado não existe."
	case strings.Contains(constraint, "to_location"):
		return "Local de destino informado não existe."
	default:
		return "Produto ou local informado não existe."
	}
}
