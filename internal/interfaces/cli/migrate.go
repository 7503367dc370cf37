package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/H2Siting/internal/config"
	"github.com/turtacn/H2Siting/internal/infrastructure/database/postgres"
	"github.com/turtacn/H2Siting/pkg/errors"
)

// Migrator applies and inspects schema migrations.
type Migrator interface {
	Up() error
	Down(steps int) error
	Status() (version uint, dirty bool, err error)
}

// MigratorFactory builds a Migrator for the loaded configuration.
type MigratorFactory func(cfg *config.Config) Migrator

type postgresMigrator struct {
	dbURL string
	dir   string
}

// NewPostgresMigrator migrates the configured database. An empty
// migrations_dir uses the migrations embedded in the binary.
func NewPostgresMigrator(cfg *config.Config) Migrator {
	return &postgresMigrator{
		dbURL: postgres.BuildDSN(postgres.FromConfig(cfg.Database)),
		dir:   cfg.Database.MigrationsDir,
	}
}

func (m *postgresMigrator) Up() error { return postgres.RunMigrations(m.dbURL, m.dir) }

func (m *postgresMigrator) Down(steps int) error {
	return postgres.RollbackMigration(m.dbURL, m.dir, steps)
}

func (m *postgresMigrator) Status() (uint, bool, error) {
	return postgres.MigrationStatus(m.dbURL, m.dir)
}

// MigrationState is the output of migrate status.
type MigrationState struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (s MigrationState) TableHeaders() []string { return []string{"Version", "State"} }

func (s MigrationState) TableRows() [][]string {
	state := color.GreenString("clean")
	if s.Dirty {
		state = color.RedString("dirty")
	}
	return [][]string{{strconv.FormatUint(uint64(s.Version), 10), state}}
}

// NewMigrateCmd creates the migrate command.
func NewMigrateCmd(factory MigratorFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrator := func(cmd *cobra.Command) (Migrator, error) {
		cliCtx, err := GetCLIContext(cmd)
		if err != nil {
			return nil, err
		}
		return factory(cliCtx.Config), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := migrator(cmd)
				if err != nil {
					return err
				}
				if err := m.Up(); err != nil {
					return err
				}
				PrintSuccess(cmd, "migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down N",
			Short: "Roll back the last N migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps, err := strconv.Atoi(args[0])
				if err != nil || steps <= 0 {
					return errors.InvalidParam(fmt.Sprintf("step count must be a positive integer, got %q", args[0]))
				}
				m, err := migrator(cmd)
				if err != nil {
					return err
				}
				if err := m.Down(steps); err != nil {
					return err
				}
				PrintSuccess(cmd, fmt.Sprintf("rolled back %d migration(s)", steps))
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := migrator(cmd)
				if err != nil {
					return err
				}
				version, dirty, err := m.Status()
				if err != nil {
					return err
				}
				return PrintResult(cmd, MigrationState{Version: version, Dirty: dirty})
			},
		},
	)
	return cmd
}

//Personal.AI order the ending
