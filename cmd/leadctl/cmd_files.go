package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/export"
)

var (
	importDefaultStatus string
	importDryRun        bool
)

var importCmd = &cobra.Command{
	Use:   "import <archivo.csv|archivo.xlsx>",
	Short: "Carga masiva de leads (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: withUser(func(ctx context.Context, a *app, u entity.User, cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		p, err := a.imports.Upload(ctx, u, filepath.Base(args[0]), content, importDefaultStatus)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d filas válidas, %d rechazadas (estado por defecto %s)\n", len(p.Records), len(p.Rejected), p.DefaultStatus)
		for _, r := range p.Rejected {
			fmt.Fprintln(out, "  "+r)
		}
		if importDryRun {
			return a.imports.Discard(u, p.ID)
		}
		res, err := a.imports.Commit(ctx, u, p.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d leads importados\n", res.Imported)
		return nil
	}),
}

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exportar la colección (csv, xlsx) o el resumen (pdf) (admin)",
	Args:  cobra.NoArgs,
	RunE: withUser(func(ctx context.Context, a *app, u entity.User, cmd *cobra.Command, _ []string) error {
		var (
			rep export.Report
			err error
		)
		switch exportFormat {
		case "csv":
			rep, err = a.exports.CSV(u)
		case "xlsx":
			rep, err = a.exports.XLSX(u)
		case "pdf":
			rep, err = a.summary.SummaryPDF(ctx, u)
		default:
			return fmt.Errorf("--format %q: use csv, xlsx o pdf", exportFormat)
		}
		if errors.Is(err, domain.ErrEmptyCollection) {
			fmt.Fprintln(cmd.OutOrStdout(), "no hay leads para exportar")
			return nil
		}
		if err != nil {
			return err
		}
		path := exportOut
		if path == "" {
			path = rep.Filename
		}
		if err := os.WriteFile(path, rep.Content, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", path, len(rep.Content))
		return nil
	}),
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Indicadores de conversión (admin)",
	RunE: withUser(func(_ context.Context, a *app, u entity.User, cmd *cobra.Command, _ []string) error {
		s, err := a.summary.GetSummary(u)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total %d · Open %d · WIP %d · Closed %d · Sale Lost %d\n", s.Total, s.Open, s.WIP, s.Closed, s.SaleLost)
		fmt.Fprintf(out, "Conversión %s%%\n", s.ConversionRate)
		for _, g := range s.Groups {
			fmt.Fprintf(out, "  %-20s %4d leads  %4d cerrados  %3d%%\n", g.Group, g.Count, g.Closed, g.Rate)
		}
		return nil
	}),
}

func init() {
	importCmd.Flags().StringVar(&importDefaultStatus, "default-status", "", "Open | WIP para filas sin estado")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "sólo mostrar la vista previa")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "csv | xlsx | pdf")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "archivo destino (por defecto el nombre sugerido)")
}
