package migrate

import (
	"context"
	"fmt"

	"github.com/ncobase/taskmanager/config"
	"github.com/ncobase/taskmanager/data"
	"github.com/ncobase/taskmanager/internal/data/schema"
	"github.com/ncobase/taskmanager/logging/logger"
	"github.com/spf13/cobra"
)

// ConfFlag is the persistent flag holding the config file path.
const ConfFlag = "conf"

// Direction selects which way a migration runs.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// NewCommand creates a new migrate command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "migrate",
		Args:    cobra.NoArgs,
		Aliases: []string{"m"},
		Short:   "Database migration commands",
		Long:    `Create or drop the tasks table in the configured database.`,
	}

	cmd.AddCommand(
		newDirectionCommand(DirectionUp, "Create the tasks table if it does not exist"),
		newDirectionCommand(DirectionDown, "Drop the tasks table"),
	)

	return cmd
}

func newDirectionCommand(dir Direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(dir),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(ConfPath(cmd))
			if err != nil {
				return err
			}
			cleanup, err := logger.New(cfg.Logger)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := Run(cmd.Context(), cfg, dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", dir)
			return nil
		},
	}
}

// ConfPath returns the --conf value set on the root command.
func ConfPath(cmd *cobra.Command) string {
	if f := cmd.Root().PersistentFlags().Lookup(ConfFlag); f != nil {
		return f.Value.String()
	}
	return ""
}

// Run opens the configured database, applies the migration and closes it.
func Run(ctx context.Context, cfg *config.Config, dir Direction) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.StdLogger()

	if cfg == nil || cfg.Data == nil {
		return fmt.Errorf("data configuration is missing")
	}
	// Migrations only need the database.
	dataCfg := *cfg.Data
	dataCfg.Messaging = nil

	d, err := data.New(ctx, &dataCfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Warn(ctx, "Failed to close database", "error", err)
		}
	}()

	switch dir {
	case DirectionUp:
		err = schema.Up(ctx, d)
	case DirectionDown:
		err = schema.Down(ctx, d)
	default:
		return fmt.Errorf("unknown migration direction %q", dir)
	}
	if err != nil {
		log.Error(ctx, "Migration failed", "direction", string(dir), "error", err)
		return fmt.Errorf("migrate %s: %w", dir, err)
	}

	log.Info(ctx, "Migration applied", "direction", string(dir), "dialect", d.Dialect())
	return nil
}
