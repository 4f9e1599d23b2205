package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/config"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server/middleware"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage bearer tokens",
	Long:  `Manage the bearer tokens accepted by the admin.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'token' requires a subcommand (issue)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue <subject>",
	Short: "Issue a bearer token",
	Long: `Issue a bearer token for a subject, signed with SQLADMIN_JWT_SECRET.

The token grants the principals user:<subject> and role:<role> for every
--role given. The default lifetime is the token_ttl configuration attribute.

Example:
  sqladminctl token issue alice --role admin
  curl -H "Authorization: Bearer $(sqladminctl token issue alice --role admin)" localhost:8000/admin/book`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		roles, _ := cmd.Flags().GetStringSlice("role")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		if ttl == 0 {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
				os.Exit(1)
			}
			ttl = cfg.TokenTTL()
		}

		jwt := middleware.NewJWTAuthenticator([]byte(os.Getenv("SQLADMIN_JWT_SECRET")))
		token, err := jwt.Issue(args[0], roles, ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenIssueCmd)
	tokenIssueCmd.Flags().StringSliceP("role", "r", nil, "role granted by the token (repeatable)")
	tokenIssueCmd.Flags().Duration("ttl", 0, "token lifetime (default: token_ttl configuration)")
}
