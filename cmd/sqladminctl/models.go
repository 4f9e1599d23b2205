package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models served by the admin",
	Long: `List the models served by the admin with their URL name, table and
primary key column.

Example:
  sqladminctl models`,
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := newRegistry()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to register models: %v\n", err)
			os.Exit(1)
		}
		printModels(cmd.OutOrStdout(), reg)
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func printModels(out io.Writer, reg *registry.Registry) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tMODEL\tTABLE\tPRIMARY KEY")
	for _, name := range reg.Names() {
		m, _ := reg.Get(name)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, m.Name, m.Table(), m.PrimaryField().DBName)
	}
	_ = w.Flush()
}
