package productrepo

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

// ProductRepository acessa a tabela product no PostgreSQL.
type ProductRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
func NewProductRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// FindAll lista todos os produtos ordenados por nome.
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT product_id, name
        FROM product
        ORDER BY name, product_id`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll de produtos.", err)
		return nil, apperror.NewDBError("Falha ao listar produtos", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, apperror.NewDBError("Falha ao mapear produtos do DB", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de produtos", err)
	}

	r.logger.Debug("Produtos listados.", map[string]interface{}{"count": len(products)})
	return products, nil
}

// FindByID busca um produto pelo ID.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT product_id, name FROM product WHERE product_id = $1`

	var p domain.Product
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar produto no DB.", err)
		return domain.Product{}, apperror.NewDBError("Falha ao buscar produto", err)
	}
	return p, nil
}

// Exists informa se já existe produto com o ID. Checagem consultiva: a chave primária decide.
func (r *ProductRepository) Exists(ctx context.Context, id string) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS (SELECT 1 FROM product WHERE product_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, apperror.NewDBError("Falha ao verificar produto", err)
	}
	return exists, nil
}

// Save insere um novo produto. Violação de chave primária vira ConflictError (chave duplicada).
func (r *ProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO product (product_id, name)
        VALUES ($1, $2)
        RETURNING product_id, name`

	err := r.DB.QueryRowContext(ctxTimeout, query, product.ID, product.Name).Scan(&product.ID, &product.Name)
	if err != nil {
		if database.IsUniqueViolation(err) {
			r.logger.Info("Inserção de produto rejeitada por ID duplicado.", map[string]interface{}{"product_id": product.ID})
			return domain.Product{}, apperror.NewDuplicateKeyError("ID de produto já existe.", err)
		}
		r.logger.Error("Falha ao inserir produto no DB.", err)
		return domain.Product{}, apperror.NewDBError("Falha ao criar produto", err)
	}

	r.logger.Info("Produto criado com sucesso.", map[string]interface{}{"product_id": product.ID, "name": product.Name})
	return product, nil
}

// UpdateName renomeia um produto existente.
func (r *ProductRepository) UpdateName(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE product
        SET name = $1
        WHERE product_id = $2
        RETURNING product_id, name`

	err := r.DB.QueryRowContext(ctxTimeout, query, product.Name, product.ID).Scan(&product.ID, &product.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não encontrado para atualização.", product.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao renomear produto no DB.", err)
		return domain.Product{}, apperror.NewDBError("Falha ao renomear produto", err)
	}

	r.logger.Info("Produto renomeado com sucesso.", map[string]interface{}{"product_id": product.ID, "name": product.Name})
	return product, nil
}
