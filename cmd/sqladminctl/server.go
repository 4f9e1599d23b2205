package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm/schema"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/config"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/db"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/demo"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server/endpoints"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server/middleware"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// namer is shared by the registry and the connection so both agree on
// table and column names
var namer = schema.NamingStrategy{}

func newRegistry() (*registry.Registry, error) {
	return registry.New(namer, demo.Models()...)
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the sqladmin server",
	Long: `Run the sqladmin server

To run the server requires the environment variables SQLADMIN_JWT_SECRET and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.
The configuration file is watched and reloaded on change.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		secret, ok := os.LookupEnv("SQLADMIN_JWT_SECRET")
		if !ok || secret == "" {
			fmt.Fprintln(os.Stderr, "SQLADMIN_JWT_SECRET environment variable is required")
			os.Exit(1)
		}

		if db.URL() == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		reg, err := newRegistry()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to register models: %v\n", err)
			os.Exit(1)
		}

		gdb, err := db.Connect(db.Config{Namer: namer})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(reg, gdb, cfg, middleware.NewJWTAuthenticator([]byte(secret)), host, port)

		endpoints.RegisterAll(s)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			err := config.Watch(ctx, cfg.ConfigFilePath(),
				func(c *config.Config) {
					log.Printf("Reloaded configuration from %s", c.ConfigFilePath())
					s.SetConfig(c)
				},
				func(err error) {
					log.Printf("Configuration not reloaded: %v", err)
				},
			)
			if err != nil {
				log.Printf("Not watching configuration: %v", err)
			}
		}()

		go func() {
			log.Printf("Running server at http://%s:%s/admin ...\n", host, port)
			if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err)
			}
		}()

		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
