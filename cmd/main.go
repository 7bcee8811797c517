package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/joho/godotenv"

	// Infraestrutura e utilitários
	"estoque/config"
	"estoque/internal/pkg/cache"
	"estoque/internal/pkg/database"
	"estoque/internal/pkg/flash"
	"estoque/internal/pkg/logger"
	"estoque/internal/pkg/middleware"
	"estoque/migrations"

	// Camadas para Injeção de Dependências
	"estoque/internal/api/location"
	"estoque/internal/api/movement"
	"estoque/internal/api/product"
	"estoque/internal/api/report"
	"estoque/internal/api/router"
	"estoque/internal/api/web"
	"estoque/internal/repository/locationrepo"
	"estoque/internal/repository/movementrepo"
	"estoque/internal/repository/productrepo"
	"estoque/internal/service/locationservice"
	"estoque/internal/service/movementservice"
	"estoque/internal/service/productservice"
	"estoque/internal/service/reportservice"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// 0. Variáveis de ambiente (.env é opcional; em Docker tudo vem do ambiente)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Logger
	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel, cfg.Environment)
	appLog.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	// 2. Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	if cfg.AutoMigrate {
		if err := migrations.Up(db); err != nil {
			appLog.Fatal("Falha ao aplicar migrações.", err)
		}
		appLog.Info("Migrações aplicadas.", nil)
	}

	// B. Cache (Redis, com fallback em memória)
	cacheClient := newCache(cfg, appLog)

	// C. Mensagens flash e templates
	messenger := flash.NewMessenger(cfg.FlashSecretKey, cfg.FlashTTL, cfg.IsProduction())
	renderer, err := web.NewRenderer(messenger, appLog)
	if err != nil {
		appLog.Fatal("Falha ao carregar templates.", err)
	}

	// 3. Injeção de Dependências: Repository -> Service -> Handler
	productRepo := productrepo.NewProductRepository(db, cfg.DBTimeout, appLog)
	locationRepo := locationrepo.NewLocationRepository(db, cfg.DBTimeout, appLog)
	movementRepo := movementrepo.NewMovementRepository(db, cfg.DBTimeout, appLog)

	// O relatório é o invalidador de cache dos demais serviços.
	reportSvc := reportservice.NewService(productRepo, locationRepo, movementRepo, cacheClient, cfg.ReportCacheTTL, appLog)
	productSvc := productservice.NewService(productRepo, reportSvc, appLog)
	locationSvc := locationservice.NewService(locationRepo, reportSvc, appLog)
	movementSvc := movementservice.NewService(movementRepo, reportSvc, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	handler := router.NewRouter(router.Handlers{
		Products:  product.NewHandler(productSvc, renderer, appLog),
		Locations: location.NewHandler(locationSvc, renderer, appLog),
		Movements: movement.NewHandler(movementSvc, productSvc, locationSvc, renderer, appLog),
		Report:    report.NewHandler(reportSvc, renderer, appLog),
		Web:       renderer,
	},
		middleware.Recoverer(appLog),
		middleware.RequestLogger(appLog),
		middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod, appLog),
	)

	// 4. Servidor HTTP
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLog.Info("Servidor de estoque ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	// 5. Graceful Shutdown: servidor primeiro, depois DB e cache
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)
				if err := server.Shutdown(ctx); err != nil {
					return err
				}
				if err := cacheClient.Close(); err != nil {
					appLog.Warn("Falha ao fechar o cache.", map[string]interface{}{"error": err.Error()})
				}
				return db.Close()
			},
		},
	)

	exitCode := <-wait
	appLog.Info("Servidor encerrado.", map[string]interface{}{"exit_code": exitCode})
	os.Exit(exitCode)
}

// newCache conecta ao Redis quando REDIS_ADDR está definido. Sem Redis, ou com
// Redis fora do ar na partida, usa o cache em memória da própria instância.
func newCache(cfg *config.Config, appLog logger.Logger) cache.Client {
	if cfg.RedisAddr == "" {
		appLog.Info("REDIS_ADDR vazio; usando cache em memória.", nil)
		return cache.NewMemoryClient()
	}

	client, err := cache.NewRedisClient(cfg.RedisAddr, cfg.CacheTimeout)
	if err != nil {
		appLog.Warn("Redis indisponível; usando cache em memória.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		client.Close()
		return cache.NewMemoryClient()
	}
	appLog.Info("Conexão Redis estabelecida.", map[string]interface{}{"addr": cfg.RedisAddr})
	return client
}
