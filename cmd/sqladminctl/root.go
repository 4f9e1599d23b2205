package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sqladminctl",
	Short: "Run and manage the sqladmin server",
	Long: `Run and manage the sqladmin server, a web admin interface for
database tables mapped by GORM models.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
