package locationservice

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

// LocationRepository define o contrato que este Serviço espera da camada de Persistência.
type LocationRepository interface {
	FindAll(ctx context.Context) ([]domain.Location, error)
	FindByID(ctx context.Context, id string) (domain.Location, error)
	Exists(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, location domain.Location) (domain.Location, error)
	UpdateName(ctx context.Context, location domain.Location) (domain.Location, error)
}

// CacheInvalidator é avisado a cada mutação para descartar relatórios em cache.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service implementa o Registro de Locais.
type Service struct {
	repo        LocationRepository
	invalidator CacheInvalidator
	logger      logger.Logger
	newID       func() string
}

// NewService cria e retorna uma nova instância do Serviço de Local.
func NewService(repo LocationRepository, invalidator CacheInvalidator, logger logger.Logger) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
		newID:       uuid.NewString,
	}
}

// ListLocations retorna todos os locais ordenados por nome.
func (s *Service) ListLocations(ctx context.Context) ([]domain.Location, error) {
	locations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.translate("Falha interna ao buscar locais.", err)
	}
	return locations, nil
}

// GetLocation busca um local pelo ID (NotFoundError se não existir).
func (s *Service) GetLocation(ctx context.Context, id string) (domain.Location, error) {
	location, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Location{}, s.translate("Falha interna ao buscar local.", err)
	}
	return location, nil
}

// CreateLocation valida e cria um local. ID vazio recebe um UUID.
// A checagem de existência é só um atalho: a chave primária no banco é quem decide.
func (s *Service) CreateLocation(ctx context.Context, req domain.CreateLocationRequest) (domain.Location, error) {
	location := domain.Location{
		ID:   strings.TrimSpace(req.ID),
		Name: strings.TrimSpace(req.Name),
	}

	if err := validateName(location.Name); err != nil {
		return domain.Location{}, err
	}
	if location.ID == "" {
		location.ID = s.newID()
	}
	if utf8.RuneCountInString(location.ID) > domain.MaxIDLength {
		return domain.Location{}, apperror.NewValidationError("O ID do local deve ter no máximo 36 caracteres.")
	}

	exists, err := s.repo.Exists(ctx, location.ID)
	if err != nil {
		s.logger.Warn("Checagem prévia de ID falhou; seguindo para o INSERT.", map[string]interface{}{"location_id": location.ID, "error": err.Error()})
	} else if exists {
		return domain.Location{}, apperror.NewConflictError("ID de local já existe.")
	}

	created, err := s.repo.Save(ctx, location)
	if err != nil {
		return domain.Location{}, s.translate("Falha interna ao criar local.", err)
	}

	s.invalidator.Invalidate(ctx)
	return created, nil
}

// RenameLocation troca o nome de um local existente.
func (s *Service) RenameLocation(ctx context.Context, req domain.RenameLocationRequest) (domain.Location, error) {
	location := domain.Location{
		ID:   strings.TrimSpace(req.ID),
		Name: strings.TrimSpace(req.Name),
	}

	if location.ID == "" {
		return domain.Location{}, apperror.NewNotFoundError("Local sem ID.")
	}
	if err := validateName(location.Name); err != nil {
		return domain.Location{}, err
	}

	updated, err := s.repo.UpdateName(ctx, location)
	if err != nil {
		return domain.Location{}, s.translate("Falha interna ao renomear local.", err)
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
		return apperror.NewValidationError("O nome do local é obrigatório.")
	}
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return apperror.NewValidationError("O nome do local deve ter no máximo 120 caracteres.")
	}
	return nil
}
