package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/db"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the database or the server to be ready",
	Long: `Wait for the database to accept connections, or with --server for the
sqladmin server to report healthy.

This command will repeatedly check until it succeeds or the maximum number
of retries is reached.

Example:
  sqladminctl wait
  sqladminctl wait --server --port 3000 --retries 60`,
	Run: func(cmd *cobra.Command, args []string) {
		retries, _ := cmd.Flags().GetInt("retries")
		checkServer, _ := cmd.Flags().GetBool("server")

		var err error
		if checkServer {
			port, _ := cmd.Flags().GetInt("port")
			err = waitFor("sqladmin server", retries, serverReady(port))
		} else {
			err = waitFor("database", retries, databaseReady)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Not ready: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "Server port to check")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of retries")
	waitCmd.Flags().Bool("server", false, "Wait for the server health check instead of the database")
}

func databaseReady() bool {
	gdb, err := db.Connect(db.Config{})
	if err != nil {
		return false
	}
	defer func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	return db.Ping(gdb, 2*time.Second) == nil
}

func serverReady(port int) func() bool {
	url := fmt.Sprintf("http://localhost:%d/health", port)
	client := &http.Client{Timeout: 2 * time.Second}
	return func() bool {
		resp, err := client.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode < 300
	}
}

func waitFor(what string, retries int, ready func() bool) error {
	fmt.Printf("Waiting for %s to be ready...\n", what)

	for i := 0; i < retries; i++ {
		if ready() {
			fmt.Println()
			fmt.Printf("%s is ready!\n", what)
			return nil
		}

		fmt.Print(".")
		time.Sleep(1 * time.Second)
	}

	fmt.Println()
	return fmt.Errorf("%s is not ready after %d seconds", what, retries)
}
