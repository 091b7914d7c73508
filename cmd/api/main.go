package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/estoque-api/internal/infrastructure/pdf"
	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/estoque-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/estoque-api/internal/interfaces/http"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// ledger repositorios y runner de transacciones del almacenamiento elegido.
type ledger struct {
	txRunner  inventory.TxRunner
	products  repository.ProductRepository
	entries   repository.MovementRepository
	exits     repository.MovementRepository
	closeFunc func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openLedger(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.closeFunc()

	creds, err := auth.NewCredentialStore(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.PasswordHash)
	if err != nil {
		log.Fatal().Err(err).Msg("credencial de acceso")
	}
	authUC := auth.NewAuthUseCase(creds, auth.SessionConfig{
		Secret:     cfg.Session.Secret,
		ExpMinutes: cfg.Session.TTLMinutes,
		Issuer:     cfg.Session.Issuer,
	})
	if cfg.Session.Secret == "dev-secret-key" && cfg.App.Env == "production" {
		log.Warn().Msg("SESSION_SECRET por defecto en producción")
	}

	calc := inventory.NewStockCalculator(store.entries, store.exits)
	productUC := usecase.NewProductUseCase(store.txRunner, store.products, store.entries, store.exits)
	entryUC := inventory.NewEntryUseCase(store.txRunner, store.products, store.entries)
	exitUC := inventory.NewExitUseCase(store.txRunner, store.products, store.exits)

	// Relatório: PDF (maroto) y planilla (excelize)
	reportUC := report.NewUseCase(
		store.products, calc,
		report.Organization{Name: cfg.Org.Name, Address: cfg.Org.Address, City: cfg.Org.City},
		infrapdf.NewMarotoPDFGenerator(),
		infraxlsx.NewExcelGenerator(),
	)

	app := httpRouter.NewApp(httpRouter.AppConfig{Name: cfg.App.Name}, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ProductUC: productUC,
		EntryUC:   entryUC,
		ExitUC:    exitUC,
		ReportUC:  reportUC,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.App.Env == "production",
		},
		Log: log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openLedger abre PostgreSQL (aplicando migraciones) o el store en memoria según STORAGE.
func openLedger(ctx context.Context, cfg *config.Config, log *logger.Logger) (*ledger, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &ledger{
			txRunner:  s,
			products:  s.Products(),
			entries:   s.Entries(),
			exits:     s.Exits(),
			closeFunc: func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("migraciones aplicadas")
	return &ledger{
		txRunner:  postgres.NewTxRunner(pool),
		products:  postgres.NewProductRepository(pool),
		entries:   postgres.NewEntryRepository(pool),
		exits:     postgres.NewExitRepository(pool),
		closeFunc: pool.Close,
	}, nil
}
