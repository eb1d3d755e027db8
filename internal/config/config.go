package config

import "os"

// SearchStrategy selects the search backend at startup.
type SearchStrategy string

const (
	StrategyText  SearchStrategy = "text"  // weighted MongoDB text index
	StrategyRegex SearchStrategy = "regex" // substring matching with suffix stemming
	StrategyAtlas SearchStrategy = "atlas" // Atlas Search autocomplete index
)

type Config struct {
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	HTTPPort       string
	JWTSecret      string
	SearchStrategy SearchStrategy
	AtlasIndex     string
}

func Load() *Config {
	return &Config{
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "pyqbank"),
		RedisAddr:      getEnv("REDIS_URI", "localhost:6379"),
		HTTPPort:       getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		SearchStrategy: SearchStrategy(getEnv("SEARCH_STRATEGY", string(StrategyText))),
		AtlasIndex:     getEnv("ATLAS_SEARCH_INDEX", "questions_search_index"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
