// Command admin runs maintenance tasks against the back-office database:
// schema migrations, seeding the first administrator, and computing digests.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-admin-go/internal/employee"
	"github.com/ovaphlow/pitchfork/service-admin-go/internal/employee/entity"
	"github.com/ovaphlow/pitchfork/service-admin-go/internal/migrations"
	"github.com/ovaphlow/pitchfork/service-admin-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-admin-go/pkg/utilities"
)

func main() {
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(lg.Sugar()).ExecuteContext(ctx); err != nil {
		lg.Sugar().Errorf("%v", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *zap.SugaredLogger) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Back-office maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(logger), newSeedAdminCmd(logger), newHashCmd())
	return root
}

func newMigrateCmd(logger *zap.SugaredLogger) *cobra.Command {
	cmd := &cobra.Command{Use: "migrate", Short: "Manage the database schema"}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.Connect(database.ConfigFromEnv())
			if err != nil {
				return err
			}
			defer db.Close()
			applied, err := migrations.Up(cmd.Context(), db.DB)
			if err != nil {
				return err
			}
			for _, a := range applied {
				logger.Infow("migration applied", "version", a.Version, "source", a.Source, "duration", a.Duration)
			}
			logger.Infow("schema up to date", "applied", len(applied))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.Connect(database.ConfigFromEnv())
			if err != nil {
				return err
			}
			defer db.Close()
			list, err := migrations.List(cmd.Context(), db.DB)
			if err != nil {
				return err
			}
			for _, s := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%05d  %-8s  %s\n", s.Version, s.State, s.Source)
			}
			return nil
		},
	})
	return cmd
}

func newSeedAdminCmd(logger *zap.SugaredLogger) *cobra.Command {
	var username, name, password string
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			hasher, err := employee.HasherFromEnv()
			if err != nil {
				return err
			}
			ids, err := utilities.NewIDGeneratorFromEnv()
			if err != nil {
				return err
			}
			db, err := database.Connect(database.ConfigFromEnv())
			if err != nil {
				return err
			}
			defer db.Close()

			svc := employee.NewEmployeeService(db, nil, hasher, ids)
			id, err := svc.Create(cmd.Context(), &entity.Employee{Username: username, Name: name, Role: entity.RoleAdmin})
			if err != nil {
				return fmt.Errorf("create %q: %w", username, err)
			}
			if password != "" && password != employee.DefaultPassword {
				if err := svc.EditPassword(cmd.Context(), id, employee.DefaultPassword, password); err != nil {
					return fmt.Errorf("set password for %q: %w", username, err)
				}
			}
			logger.Infow("administrator created", "id", id, "username", username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "admin", "login name")
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&password, "password", "", "initial password (default "+employee.DefaultPassword+")")
	return cmd
}

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <password>",
		Short: "Print the stored digest for a password using PASSWORD_HASHER",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher, err := employee.HasherFromEnv()
			if err != nil {
				return err
			}
			d, err := hasher.Hash(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), d)
			return nil
		},
	}
}
