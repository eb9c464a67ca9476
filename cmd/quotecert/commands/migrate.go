package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/quotecert/pkg/config"
	"github.com/wonny/quotecert/pkg/database"
	"github.com/wonny/quotecert/pkg/logger"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "PostgreSQL 스키마 마이그레이션",
	Long: `cert.certifications 스키마를 관리합니다 (goose, 바이너리 내장 SQL).

Subcommands:
  up      - 최신 버전까지 적용
  status  - 현재 버전 조회

Example:
  go run ./cmd/quotecert migrate up
  go run ./cmd/quotecert migrate status`,
}

var (
	migrateUpCmd = &cobra.Command{
		Use:   "up",
		Short: "마이그레이션 적용",
		RunE:  runMigrateUp,
	}

	migrateStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "현재 스키마 버전",
		RunE:  runMigrateStatus,
	}
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

// openDatabase connects regardless of CERT_STORE; migrations always target DATABASE_URL
func openDatabase(cmd *cobra.Command) (*database.DB, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required for migrations")
	}

	log := logger.New(cfg)
	db, err := database.New(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, log, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	db, log, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(cmd.Context()); err != nil {
		return err
	}

	version, err := db.MigrationVersion(cmd.Context())
	if err != nil {
		return err
	}
	log.WithField("version", version).Info("Migrations applied")

	printer{w: cmd.OutOrStdout()}.success(fmt.Sprintf("Schema at version %d", version))
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, _, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := db.MigrationVersion(cmd.Context())
	if err != nil {
		return err
	}

	printer{w: cmd.OutOrStdout()}.keyValue("Schema version", version)
	return nil
}
