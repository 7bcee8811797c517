package productservice

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"estoque/internal/domain"
	apperror "estoque/internal/errors"
	"estoque/internal/pkg/logger"
)

// ProductRepository define o contrato que este Serviço espera da camada de Persistência.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (domain.Product, error)
	Exists(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, product domain.Product) (domain.Product, error)
	UpdateName(ctx context.Context, product domain.Product) (domain.Product, error)
}

// CacheInvalidator é avisado a cada mutação para descartar relatórios em cache.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service implementa o Registro de Produtos.
type Service struct {
	repo        ProductRepository
	invalidator CacheInvalidator
	logger      logger.Logger
	newID       func() string
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProductRepository, invalidator CacheInvalidator, logger logger.Logger) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
		newID:       uuid.NewString,
	}
}

// ListProducts retorna todos os produtos ordenados por nome.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.translate("Falha interna ao buscar produtos.", err)
	}
	return products, nil
}

// GetProduct busca um produto pelo ID (NotFoundError se não existir).
func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Product{}, s.translate("Falha interna ao buscar produto.", err)
	}
	return product, nil
}

// CreateProduct valida e cria um produto. ID vazio recebe um UUID.
// A checagem de existência é só um atalho: a chave primária no banco é quem decide.
func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	product := domain.Product{
		ID:   strings.TrimSpace(req.ID),
		Name: strings.TrimSpace(req.Name),
	}

	if err := validateName(product.Name); err != nil {
		return domain.Product{}, err
	}
	if product.ID == "" {
		product.ID = s.newID()
	}
	if utf8.RuneCountInString(product.ID) > domain.MaxIDLength {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ter no máximo 36 caracteres.")
	}

	exists, err := s.repo.Exists(ctx, product.ID)
	if err != nil {
		s.logger.Warn("Checagem prévia de ID falhou; seguindo para o INSERT.", map[string]interface{}{"product_id": product.ID, "error": err.Error()})
	} else if exists {
		return domain.Product{}, apperror.NewConflictError("ID de produto já existe.")
	}

	created, err := s.repo.Save(ctx, product)
	if err != nil {
		return domain.Product{}, s.translate("Falha interna ao criar produto.", err)
	}

	s.invalidator.Invalidate(ctx)
	return created, nil
}

// RenameProduct troca o nome de um produto existente.
func (s *Service) RenameProduct(ctx context.Context, req domain.RenameProductRequest) (domain.Product, error) {
	product := domain.Product{
		ID:   strings.TrimSpace(req.ID),
		Name: strings.TrimSpace(req.Name),
	}

	if product.ID == "" {
		return domain.Product{}, apperror.NewNotFoundError("Produto sem ID.")
	}
	if err := validateName(product.Name); err != nil {
		return domain.Product{}, err
	}

	updated, err := s.repo.UpdateName(ctx, product)
	if err != nil {
		return domain.Product{}, s.translate("Falha interna ao renomear produto.", err)
	}

	s.invalidator.Invalidate(ctx)
	return updated, nil
}

// translate propaga erros tipados e encapsula o resto como InternalError.
func (s *Service) translate(msg string, err error) error {
	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	s.logger.Error(msg, err)
	return apperror.NewInternalError(msg, err)
}

func validateName(name string) error {
	if name == "" {
		return apperror.NewValidationError("O nome do produto é obrigatório.")
	}
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return apperror.NewValidationError("O nome do produto deve ter no máximo 120 caracteres.")
	}
	return nil
}
