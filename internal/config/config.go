package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"marketsim/internal/montecarlo"
)

// AppConfig holds the complete application configuration: data/log/cache
// paths resolved the way the teacher's MCP server resolves them, plus the
// sanitization ceilings the montecarlo driver and MCP tool boundary both
// enforce on incoming run configs (§4.6, §6.4).
type AppConfig struct {
	DataPath             string
	LogDir               string
	CacheDir             string
	Seed                 uint32
	MaxIterations        int
	MaxCustomers         int
	MaxHorizonWeeks      int
	MaxCompetitors       int
	EnableReportAutoOpen bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	cacheDir := filepath.Join(dataPath, "cache")

	// Ensure directories exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cacheDir).Msg("Failed to create cache directory")
	}

	seed, _ := strconv.ParseUint(getEnv("MARKETSIM_SEED", "0"), 10, 32)

	cfg := &AppConfig{
		DataPath:             dataPath,
		LogDir:               logDir,
		CacheDir:             cacheDir,
		Seed:                 uint32(seed),
		MaxIterations:        getEnvInt("MARKETSIM_MAX_ITERATIONS", montecarlo.MaxIterations),
		MaxCustomers:         getEnvInt("MARKETSIM_MAX_CUSTOMERS", montecarlo.MaxTotalCustomers),
		MaxHorizonWeeks:      getEnvInt("MARKETSIM_MAX_HORIZON_WEEKS", montecarlo.MaxTimeHorizonWeeks),
		MaxCompetitors:       getEnvInt("MARKETSIM_MAX_COMPETITORS", montecarlo.MaxCompetitors),
		EnableReportAutoOpen: getEnvBool("MARKETSIM_REPORT_AUTO_OPEN", false),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
