package locationrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"estoque/internal/domain"
	apperror "estoque/internal/errors"
	"estoque/internal/pkg/database"
	"estoque/internal/pkg/logger"
)

// LocationRepository acessa a tabela location no PostgreSQL.
type LocationRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewLocationRepository cria e retorna uma nova instância do Repositório.
func NewLocationRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *LocationRepository {
	return &LocationRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// FindAll lista todos os locais ordenados por nome.
func (r *LocationRepository) FindAll(ctx context.Context) ([]domain.Location, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT location_id, name
        FROM location
        ORDER BY name, location_id`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll de locais.", err)
		return nil, apperror.NewDBError("Falha ao listar locais", err)
	}
	defer rows.Close()

	locations := make([]domain.Location, 0)
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, apperror.NewDBError("Falha ao mapear locais do DB", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de locais", err)
	}

	r.logger.Debug("Locais listados.", map[string]interface{}{"count": len(locations)})
	return locations, nil
}

// FindByID busca um local pelo ID.
func (r *LocationRepository) FindByID(ctx context.Context, id string) (domain.Location, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT location_id, name FROM location WHERE location_id = $1`

	var l domain.Location
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(&l.ID, &l.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Location{}, apperror.NewNotFoundError(fmt.Sprintf("Local com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar local no DB.", err)
		return domain.Location{}, apperror.NewDBError("Falha ao buscar local", err)
	}
	return l, nil
}

// Exists informa se já existe local com o ID. Checagem consultiva: a chave primária decide.
func (r *LocationRepository) Exists(ctx context.Context, id string) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS (SELECT 1 FROM location WHERE location_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, apperror.NewDBError("Falha ao verificar local", err)
	}
	return exists, nil
}

// Save insere um novo local. Violação de chave primária vira ConflictError (chave duplicada).
func (r *LocationRepository) Save(ctx context.Context, location domain.Location) (domain.Location, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO location (location_id, name)
        VALUES ($1, $2)
        RETURNING location_id, name`

	err := r.DB.QueryRowContext(ctxTimeout, query, location.ID, location.Name).Scan(&location.ID, &location.Name)
	if err != nil {
		if database.IsUniqueViolation(err) {
			r.logger.Info("Inserção de local rejeitada por ID duplicado.", map[string]interface{}{"location_id": location.ID})
			return domain.Location{}, apperror.NewDuplicateKeyError("ID de local já existe.", err)
		}
		r.logger.Error("Falha ao inserir local no DB.", err)
		return domain.Location{}, apperror.NewDBError("Falha ao criar local", err)
	}

	r.logger.Info("Local criado com sucesso.", map[string]interface{}{"location_id": location.ID, "name": location.Name})
	return location, nil
}

// UpdateName renomeia um local existente.
func (r *LocationRepository) UpdateName(ctx context.Context, location domain.Location) (domain.Location, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE location
        SET name = $1
        WHERE location_id = $2
        RETURNING location_id, name`

	err := r.DB.QueryRowContext(ctxTimeout, query, location.Name, location.ID).Scan(&location.ID, &location.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Location{}, apperror.NewNotFoundError(fmt.Sprintf("Local com ID %s não encontrado para atualização.", location.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao renomear local no DB.", err)
		return domain.Location{}, apperror.NewDBError("Falha ao renomear local", err)
	}

	r.logger.Info("Local renomeado com sucesso.", map[string]interface{}{"location_id": location.ID, "name": location.Name})
	return location, nil
}
