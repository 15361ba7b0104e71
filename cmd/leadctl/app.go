package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/conversion-pro/internal/application/analytics"
	"github.com/jhoicas/conversion-pro/internal/application/auth"
	"github.com/jhoicas/conversion-pro/internal/application/imports"
	"github.com/jhoicas/conversion-pro/internal/application/leads"
	"github.com/jhoicas/conversion-pro/internal/application/reports"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/kvrepo"
	infrapdf "github.com/jhoicas/conversion-pro/internal/infrastructure/pdf"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/storage"
	"github.com/jhoicas/conversion-pro/pkg/config"
	"github.com/jhoicas/conversion-pro/pkg/logger"
	"github.com/jhoicas/conversion-pro/pkg/metrics"
)

// cliSession id de sesión de lista para el CLI.
const cliSession = "cli"

// app dependencias construidas por comando.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	auth     *auth.AuthUseCase
	book     *leads.Book
	list     *leads.ListUseCase
	imports  *imports.ImportUseCase
	summary  *analytics.SummaryUseCase
	exports  *reports.ExportUseCase
	closeAll func()
}

var verbose bool

// newApp abre el almacén configurado y carga la colección.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	if cfg.Store.Driver == storage.DriverMemory {
		return nil, fmt.Errorf("STORE_DRIVER=memory no persiste entre ejecuciones del CLI")
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: "development", Level: level, Out: os.Stderr})

	store, closeStore, err := storage.Open(ctx, cfg, log.Component("store"))
	if err != nil {
		return nil, err
	}
	m := metrics.New()
	book := leads.NewBook(kvrepo.NewLeadRepository(store, log.Component("repo")), log.Component("book"), m)
	if err := book.Start(ctx); err != nil {
		closeStore()
		return nil, fmt.Errorf("cargar leads: %w", err)
	}

	sheets := spreadsheet.New()
	a := &app{
		cfg: cfg,
		log: log,
		auth: auth.NewAuthUseCase([]auth.Credential{
			{ID: cfg.Auth.Admin.ID, Password: cfg.Auth.Admin.Password, Name: cfg.Auth.Admin.Name, Role: entity.RoleAdmin},
			{ID: cfg.Auth.Employee.ID, Password: cfg.Auth.Employee.Password, Name: cfg.Auth.Employee.Name, Role: entity.RoleEmployee},
		}, auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
			kvrepo.NewSessionRepository(store, log.Component("session"))),
		book: book,
		list: leads.NewListUseCase(book),
		imports: imports.NewImportUseCase(book, sheets, imports.Options{
			DefaultStatus:       entity.Status(cfg.Import.DefaultStatus),
			StrictMobileHeaders: cfg.Import.StrictMobileHeaders,
		}, log.Component("imports"), m),
		summary: analytics.NewSummaryUseCase(book, infrapdf.NewMarotoPDFGenerator(cfg.App.Name)),
		exports: reports.NewExportUseCase(book, sheets),
	}
	a.closeAll = func() {
		book.Stop()
		closeStore()
	}
	return a, nil
}

// withApp ejecuta fn con las dependencias abiertas.
func withApp(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.closeAll()
		return fn(ctx, a, cmd, args)
	}
}

// withUser como withApp pero exige sesión iniciada.
func withUser(fn func(ctx context.Context, a *app, u entity.User, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		u, err := a.auth.Current(ctx)
		if err != nil {
			return fmt.Errorf("sin sesión; ejecute 'leadctl login': %w", err)
		}
		return fn(ctx, a, *u, cmd, args)
	})
}
