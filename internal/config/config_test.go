package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petrunov/gs-peachtree-bank/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "transaction_completed", cfg.Kafka.Topic)
	assert.Equal(t, 10.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("DB_NAME", "ledger_test")

	cfg := config.Load()

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "ledger_test", cfg.Database.Name)
}

func TestDSN(t *testing.T) {
	d := config.DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Name: "peachtree", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=peachtree sslmode=disable", d.DSN())

	d.URL = "postgres://u:p@db:5433/peachtree"
	assert.Equal(t, "postgres://u:p@db:5433/peachtree", d.DSN())
}
