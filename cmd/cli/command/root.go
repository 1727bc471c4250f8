package command

// root.go defines the studytour maintenance CLI. Every command talks to the
// database directly and reads the same environment as the API server.

import (
	"fmt"
	"os"

	"studytour/database"
	"studytour/internal/config"
	"studytour/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "studytour",
	Short: "studytour - maintenance commands for the StudyTour platform",
	Long: `studytour runs operator tasks against the StudyTour database:
- crawl program sites and store new campsites
- recompute cached rating averages
- change a user's role

Configuration comes from the environment (and .env), as for the API server.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")

	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(ratingsCmd)
	rootCmd.AddCommand(usersCmd)
}

// env holds what every command needs.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func (e *env) close() {
	_ = database.Close(e.db)
	_ = e.logger.Sync()
}

func setup() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	zl, err := logger.New(level, "text")
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	db, err := database.Connect(cfg, zl)
	if err != nil {
		_ = zl.Sync()
		return nil, err
	}
	return &env{cfg: cfg, logger: zl, db: db}, nil
}
