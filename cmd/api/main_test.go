package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/pkg/config"
	"github.com/jhoicas/caja-api/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Env: "test", Name: "caja-api-test"},
		HTTP:     config.HTTPConfig{Host: "127.0.0.1", Port: 0},
		Storage:  config.StorageConfig{Driver: "memory"},
		Realtime: config.RealtimeConfig{Driver: "memory", Channel: "caja:test"},
		Sales:    config.SalesConfig{SnowflakeNode: 1, NumberPrefix: "V"},
	}
}

// Un fallo de arranque vuelve como error en lugar de terminar el proceso.
func TestRun_GeneradorInvalidoDevuelveError(t *testing.T) {
	cfg := testConfig()
	cfg.Sales.SnowflakeNode = 5000

	err := run(cfg, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generador de números de venta")
}

func TestRun_RedisInalcanzableDevuelveError(t *testing.T) {
	cfg := testConfig()
	cfg.Realtime.Driver = "redis"
	cfg.Realtime.RedisAddr = "127.0.0.1:1"

	err := run(cfg, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conexión a Redis")
}

func TestRun_PostgresInalcanzableDevuelveError(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "postgres"
	cfg.DB = config.DBConfig{Host: "127.0.0.1", Port: 1, User: "u", DBName: "caja", SSLMode: "disable", MaxConns: 2}

	err := run(cfg, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "almacenamiento")
}
