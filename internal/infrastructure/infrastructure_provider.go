package infrastructure

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/harshrajput1506/chatgpt-clone/internal/config"
	"github.com/harshrajput1506/chatgpt-clone/internal/domain/generation"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/database"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/database/repository"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/llmprovider"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/logger"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideLogger builds the application logger from config
func ProvideLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.LogFormat)
}

// ProvideDatabase provides a database connection
func ProvideDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Run migrations if AUTO_MIGRATE is enabled
	if cfg.AutoMigrate {
		log.Info().Msg("Running database migrations...")
		if err := database.AutoMigrate(db); err != nil {
			log.Error().Err(err).Msg("Failed to run database migrations")
			return nil, err
		}
		log.Info().Msg("Database migrations completed successfully")
	}

	return db, nil
}

// Infrastructure holds all infrastructure dependencies
type Infrastructure struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

// NewInfrastructure creates a new infrastructure instance
func NewInfrastructure(db *gorm.DB, logger zerolog.Logger) *Infrastructure {
	return &Infrastructure{
		DB:     db,
		Logger: logger,
	}
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,

	// Database
	ProvideDatabase,

	// Repositories
	repository.RepositoryProvider,

	// Completion backend
	llmprovider.NewClient,
	wire.Bind(new(generation.CompletionClient), new(*llmprovider.Client)),
	wire.Bind(new(generation.BackendDirectory), new(*llmprovider.Client)),

	// Logger
	ProvideLogger,

	// Infrastructure struct
	NewInfrastructure,
)
