package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "pyqbank", cfg.MongoDB)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StrategyText, cfg.SearchStrategy)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MONGO_DB", "pyqbank_test")
	t.Setenv("SEARCH_STRATEGY", "atlas")
	t.Setenv("PORT", "9090")

	cfg := Load()

	assert.Equal(t, "pyqbank_test", cfg.MongoDB)
	assert.Equal(t, StrategyAtlas, cfg.SearchStrategy)
	assert.Equal(t, "9090", cfg.HTTPPort)
}
