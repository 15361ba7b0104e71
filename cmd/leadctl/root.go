package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "leadctl",
	Short: "Administración de leads de Conversion Pro",
	Long: `leadctl trabaja sobre el mismo almacén que la API (STORE_DRIVER).

Comandos:
  login / logout / whoami  - sesión persistida en el almacén
  list                     - lista paginada con filtros
  import                   - carga masiva desde CSV o XLSX
  export                   - CSV, XLSX o PDF del resumen
  summary                  - indicadores de conversión
  wipe                     - borrado masivo (admin)
  seed                     - leads sintéticos (admin)`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "logs de depuración en stderr")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, listCmd, importCmd, exportCmd, summaryCmd, wipeCmd, seedCmd)
}
