package reportservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"estoque/internal/domain"
	apperror "estoque/internal/errors"
	"estoque/internal/pkg/cache"
	"estoque/internal/pkg/logger"
)

// Chaves de cache. A versão é incrementada a cada mutação; o relatório é
// guardado sob a versão lida antes do cálculo, então um relatório calculado
// durante uma mutação nunca é servido depois dela.
const (
	reportVersionKey = "report:version"
	reportCacheKey   = "report:balance:v%d"
)

// ProductLister lista produtos ordenados por nome.
type ProductLister interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
}

// LocationLister lista locais ordenados por nome.
type LocationLister interface {
	FindAll(ctx context.Context) ([]domain.Location, error)
}

// BalanceAggregator agrega o saldo de cada par (produto, local) movimentado.
type BalanceAggregator interface {
	SumBalances(ctx context.Context) (map[domain.BalanceKey]int64, error)
}

// Service gera o relatório de saldos por produto e local.
type Service struct {
	products  ProductLister
	locations LocationLister
	balances  BalanceAggregator
	cache     cache.Client
	ttl       time.Duration
	logger    logger.Logger
}

// NewService cria o serviço de relatório. cacheClient pode ser nil (sem cache).
func NewService(products ProductLister, locations LocationLister, balances BalanceAggregator, cacheClient cache.Client, ttl time.Duration, logger logger.Logger) *Service {
	return &Service{
		products:  products,
		locations: locations,
		balances:  balances,
		cache:     cacheClient,
		ttl:       ttl,
		logger:    logger,
	}
}

// BalanceReport devolve uma linha para cada par do produto cartesiano produtos × locais,
// produtos em ordem de nome e, dentro de cada produto, locais em ordem de nome.
func (s *Service) BalanceReport(ctx context.Context) ([]domain.BalanceRow, error) {
	key, cacheable := s.cacheKey(ctx)
	if cacheable {
		if rows, ok := s.readCache(ctx, key); ok {
			return rows, nil
		}
	}

	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, s.translate("Falha interna ao listar produtos do relatório.", err)
	}
	locations, err := s.locations.FindAll(ctx)
	if err != nil {
		return nil, s.translate("Falha interna ao listar locais do relatório.", err)
	}
	balances, err := s.balances.SumBalances(ctx)
	if err != nil {
		return nil, s.translate("Falha interna ao calcular saldos.", err)
	}

	rows := BuildBalanceReport(products, locations, balances)

	if cacheable {
		s.writeCache(ctx, key, rows)
	}
	return rows, nil
}

// Invalidate descarta o relatório em cache. Falhas são só registradas:
// o TTL limita por quanto tempo um relatório antigo pode ser servido.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, reportVersionKey); err != nil {
		s.logger.Warn("Falha ao invalidar cache do relatório.", map[string]interface{}{"error": err.Error()})
	}
}

// BuildBalanceReport monta o relatório a partir das listas já ordenadas e dos saldos agregados.
// Pares sem movimentação têm saldo zero; saldos negativos são mantidos como estão.
func BuildBalanceReport(products []domain.Product, locations []domain.Location, balances map[domain.BalanceKey]int64) []domain.BalanceRow {
	rows := make([]domain.BalanceRow, 0, len(products)*len(locations))
	for _, p := range products {
		for _, l := range locations {
			rows = append(rows, domain.BalanceRow{
				ProductID:    p.ID,
				ProductName:  p.Name,
				LocationID:   l.ID,
				LocationName: l.Name,
				Balance:      balances[domain.BalanceKey{ProductID: p.ID, LocationID: l.ID}],
			})
		}
	}
	return rows
}

func (s *Service) cacheKey(ctx context.Context) (string, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return "", false
	}
	version, err := s.cache.GetInt(ctx, reportVersionKey)
	if err != nil && err != cache.ErrCacheMiss {
		s.logger.Warn("Cache indisponível; relatório calculado direto no banco.", map[string]interface{}{"error": err.Error()})
		return "", false
	}
	return fmt.Sprintf(reportCacheKey, version), true
}

func (s *Service) readCache(ctx context.Context, key string) ([]domain.BalanceRow, bool) {
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != cache.ErrCacheMiss {
			s.logger.Warn("Falha ao ler relatório do cache.", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}

	var rows []domain.BalanceRow
	if err := json.Unmarshal([]byte(cached), &rows); err != nil {
		s.logger.Warn("Relatório em cache corrompido; recalculando.", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	s.logger.Debug("Relatório servido do cache.", map[string]interface{}{"key": key})
	return rows, true
}

func (s *Service) writeCache(ctx context.Context, key string, rows []domain.BalanceRow) {
	payload, err := json.Marshal(rows)
	if err != nil {
		s.logger.Warn("Falha ao serializar relatório para cache.", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		s.logger.Warn("Falha ao gravar relatório no cache.", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) translate(msg string, err error) error {
	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	s.logger.Error(msg, err)
	return apperror.NewInternalError(msg, err)
}
