package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/hamidoujand/signup/internal/migrate"
	"github.com/hamidoujand/signup/internal/sqldb"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var cfg sqldb.Config
	var tls bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs migration",
		Long: `Execute database migrations.

Examples:
  admin migrate --user=myuser --pass=mypass --host=localhost:5432 --name=mydb`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case cfg.User == "":
				return fmt.Errorf("database user is required (--user)")
			case cfg.Password == "":
				return fmt.Errorf("database password is required (--pass)")
			case cfg.Host == "":
				return fmt.Errorf("database host is required (--host)")
			case cfg.Name == "":
				return fmt.Errorf("database name is required (--name)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.DisableTLS = !tls
			fmt.Fprintln(cmd.OutOrStdout(), "applying migrations...")

			db, err := sqldb.Open(cfg)
			if err != nil {
				return fmt.Errorf("open connection: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if err := sqldb.ConnCheck(ctx, db); err != nil {
				return fmt.Errorf("connCheck: %w", err)
			}

			if err := migrate.Migrate(db, cfg.Name); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migration completed!")
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfg.User, "user", "u", "postgres", "Database username.")
	cmd.Flags().StringVarP(&cfg.Password, "pass", "p", "postgres", "Database password.")
	cmd.Flags().StringVar(&cfg.Host, "host", "localhost:5432", "Database host:port.")
	cmd.Flags().StringVarP(&cfg.Name, "name", "n", "postgres", "Database name to run migration against.")
	cmd.Flags().BoolVar(&tls, "tls", false, "Require TLS on the database connection.")

	return cmd
}
