package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/conversion-pro/internal/application/analytics"
	"github.com/jhoicas/conversion-pro/internal/application/auth"
	"github.com/jhoicas/conversion-pro/internal/application/backup"
	"github.com/jhoicas/conversion-pro/internal/application/imports"
	"github.com/jhoicas/conversion-pro/internal/application/leads"
	"github.com/jhoicas/conversion-pro/internal/application/reports"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/kvrepo"
	infrapdf "github.com/jhoicas/conversion-pro/internal/infrastructure/pdf"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/realtime"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/s3backup"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/conversion-pro/internal/interfaces/http"
	"github.com/jhoicas/conversion-pro/pkg/config"
	"github.com/jhoicas/conversion-pro/pkg/logger"
	"github.com/jhoicas/conversion-pro/pkg/metrics"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	// Sentry sólo si hay DSN
	reportToSentry := cfg.Sentry.DSN != ""
	if reportToSentry {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.App.Env,
			TracesSampleRate: 0.2,
			AttachStacktrace: true,
		}); err != nil {
			log.Error().Err(err).Msg("inicializar Sentry")
			reportToSentry = false
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storage.Open(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer closeStore()

	m := metrics.New()

	// ── Colección y sincronización ───────────────────────────────────────────
	book := leads.NewBook(kvrepo.NewLeadRepository(store, log.Component("repo")), log.Component("book"), m)
	if err := book.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar leads")
	}
	defer book.Stop()

	hub := realtime.NewHub(log.Component("realtime"))
	book.OnChange(func(count int, source string) {
		hub.Publish(realtime.LeadsChanged(count, source))
	})

	// ── Casos de uso ─────────────────────────────────────────────────────────
	authUC := auth.NewAuthUseCase([]auth.Credential{
		{ID: cfg.Auth.Admin.ID, Password: cfg.Auth.Admin.Password, Name: cfg.Auth.Admin.Name, Role: entity.RoleAdmin},
		{ID: cfg.Auth.Employee.ID, Password: cfg.Auth.Employee.Password, Name: cfg.Auth.Employee.Name, Role: entity.RoleEmployee},
	}, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, nil)

	sheets := spreadsheet.New()
	importUC := imports.NewImportUseCase(book, sheets, imports.Options{
		DefaultStatus:       entity.Status(cfg.Import.DefaultStatus),
		StrictMobileHeaders: cfg.Import.StrictMobileHeaders,
	}, log.Component("imports"), m)
	summaryUC := analytics.NewSummaryUseCase(book, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	exportUC := reports.NewExportUseCase(book, sheets)

	var job *backup.Job
	if cfg.Backup.Enabled() {
		up, err := s3backup.New(ctx, cfg.Backup)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		job = backup.NewJob(book, up, log.Component("backup"), m)
		if err := job.Start(cfg.Backup.Cron); err != nil {
			log.Fatal().Err(err).Msg("programar respaldos")
		}
	}

	// ── HTTP ─────────────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    12 << 20,
		ErrorHandler: httpRouter.ErrorHandler(reportToSentry),
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), m))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Conversion Pro API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "leads": book.Len()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		Book:       book,
		ListUC:     leads.NewListUseCase(book),
		FollowUpUC: leads.NewFollowUpUseCase(book, cfg.App.PhoneRegion),
		ImportUC:   importUC,
		SummaryUC:  summaryUC,
		ExportUC:   exportUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	syncSrv := realtime.NewServer(cfg.HTTP.SyncAddr(), hub, m)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("API escuchando")
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.SyncAddr()).Msg("sincronización escuchando")
		return syncSrv.ListenAndServe()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidores...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if job != nil {
			job.Stop(shutdownCtx)
		}
		return errors.Join(
			app.ShutdownWithContext(shutdownCtx),
			syncSrv.Shutdown(shutdownCtx),
		)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("servidor finalizado con error")
	}
	log.Info().Msg("aplicación detenida")
}
