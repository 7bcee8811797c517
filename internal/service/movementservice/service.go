package movementservice

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"

	"estoque/internal/domain"
	apperror "estoque/internal/errors"
	"estoque/internal/pkg/logger"
)

// MovementRepository define o contrato que o Serviço de Movimentações espera da camada de Persistência.
type MovementRepository interface {
	Save(ctx context.Context, m domain.Movement) (domain.Movement, error)
	FindAll(ctx context.Context) ([]domain.MovementView, error)
}

// CacheInvalidator é avisado a cada movimentação gravada.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service implementa o Registro de Movimentações.
type Service struct {
	repo        MovementRepository
	invalidator CacheInvalidator
	logger      logger.Logger
	newID       func() string
}

// NewService cria e retorna uma nova instância do Serviço de Movimentações.
func NewService(repo MovementRepository, invalidator CacheInvalidator, logger logger.Logger) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
		newID:       uuid.NewString,
	}
}

// RecordMovement valida e grava uma movimentação.
// Regras: produto obrigatório, 0 < qty <= MaxInt32 (coluna INTEGER), ao menos um local,
// origem diferente do destino.
// A existência de produto e locais é garantida pelas FKs do banco.
func (s *Service) RecordMovement(ctx context.Context, req domain.RecordMovementRequest) (domain.Movement, error) {
	productID := strings.TrimSpace(req.ProductID)
	from := optional(req.FromLocation)
	to := optional(req.ToLocation)

	if productID == "" || req.Qty <= 0 || req.Qty > math.MaxInt32 {
		return domain.Movement{}, apperror.NewValidationError("Escolha um produto e uma quantidade positiva.")
	}
	if from == nil && to == nil {
		return domain.Movement{}, apperror.NewValidationError("Informe o local de origem, o de destino ou ambos.")
	}
	if from != nil && to != nil && *from == *to {
		return domain.Movement{}, apperror.NewValidationError("Origem e destino devem ser locais diferentes.")
	}

	movement := domain.Movement{
		ID:           s.newID(),
		ProductID:    productID,
		FromLocation: from,
		ToLocation:   to,
		Qty:          req.Qty,
	}

	saved, err := s.repo.Save(ctx, movement)
	if err != nil {
		var appErr apperror.AppError
		if errors.As(err, &appErr) {
			return domain.Movement{}, err
		}
		s.logger.Error("Falha ao gravar movimentação no repositório.", err)
		return domain.Movement{}, apperror.NewInternalError("Falha interna ao gravar movimentação.", err)
	}

	s.invalidator.Invalidate(ctx)
	return saved, nil
}

// ListMovements retorna as movimentações da mais recente para a mais antiga.
func (s *Service) ListMovements(ctx context.Context) ([]domain.MovementView, error) {
	movements, err := s.repo.FindAll(ctx)
	if err != nil {
		var appErr apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		s.logger.Error("Falha ao listar movimentações no repositório.", err)
		return nil, apperror.NewInternalError("Falha interna ao listar movimentações.", err)
	}
	return movements, nil
}

// optional converte campo de formulário vazio em ausência (nil).
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
