package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/conversion-pro/internal/application/dto"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/testdata"
)

var listQuery dto.LeadListQuery

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista paginada de leads",
	RunE: withUser(func(_ context.Context, a *app, u entity.User, cmd *cobra.Command, _ []string) error {
		page, err := a.list.List(cliSession, u, listQuery)
		if err != nil {
			return err
		}
		printLeads(cmd.OutOrStdout(), page)
		return nil
	}),
}

func printLeads(out io.Writer, page *dto.LeadPageResponse) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FECHA\tCLIENTE\tMÓVIL\tGRUPO\tESTADO\tEMPLEADO\tID")
	for _, l := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.Date, l.CustomerName, l.MobileNumber, l.Group, l.Status, l.EmployeeName, l.ID)
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "\nvista %s · página %d/%d · %d leads\n", page.View, page.Page, page.TotalPages, page.Total)
}

var (
	wipeOrigin string
	wipeYes    bool
)

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Borrar todos los leads de un origen o la colección completa (admin)",
	RunE: withUser(func(ctx context.Context, a *app, u entity.User, cmd *cobra.Command, _ []string) error {
		what := "TODOS los leads"
		if wipeOrigin != "" {
			what = "todos los leads de origen " + wipeOrigin
		}
		if !wipeYes {
			wipeYes = confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "¿Borrar "+what+"?")
		}
		var (
			n   int
			err error
		)
		if wipeOrigin != "" {
			n, err = a.book.WipeOrigin(ctx, u, entity.LeadOrigin(wipeOrigin), wipeYes)
		} else {
			n, err = a.book.WipeAll(ctx, u, wipeYes)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d leads borrados\n", n)
		return nil
	}),
}

// confirm pide s/n en la terminal.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [s/N]: ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}

var (
	seedCount int
	seedSeed  int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Agregar leads sintéticos como carga masiva (admin)",
	RunE: withUser(func(ctx context.Context, a *app, u entity.User, cmd *cobra.Command, _ []string) error {
		cands := testdata.GenerateCandidates(testdata.LeadGeneratorConfig{
			Count:     seedCount,
			Seed:      seedSeed,
			WIPChance: 0.3,
		})
		added, err := a.book.AddBatch(ctx, u, cands)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d leads agregados\n", len(added))
		return nil
	}),
}

func init() {
	listCmd.Flags().StringVar(&listQuery.View, "view", "manual", "manual | bulk")
	listCmd.Flags().StringVar(&listQuery.Search, "search", "", "cliente, móvil o SKU")
	listCmd.Flags().StringVar(&listQuery.Status, "status", "", "Open | WIP | Closed | Sale Lost")
	listCmd.Flags().IntVar(&listQuery.Page, "page", 1, "página")
	listCmd.Flags().IntVar(&listQuery.PageSize, "page-size", 25, "25, 50, 100, 250")

	wipeCmd.Flags().StringVar(&wipeOrigin, "origin", "", "Manual | Bulk; vacío borra todo")
	wipeCmd.Flags().BoolVarP(&wipeYes, "yes", "y", false, "no pedir confirmación")

	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 50, "cantidad de leads")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 0, "semilla (0 = aleatoria)")
}
