package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "memory", cfg.Realtime.Driver)
	assert.Equal(t, "caja:stock", cfg.Realtime.Channel)
	assert.Equal(t, int64(1), cfg.Sales.SnowflakeNode)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
}

func TestFromViper_EnvSobrescribe(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("REALTIME_DRIVER", "redis")
	v.Set("REDIS_DB", "3")
	v.Set("HTTP_PORT", "9090")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "redis", cfg.Realtime.Driver)
	assert.Equal(t, 3, cfg.Realtime.RedisDB)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "mongo")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("SNOWFLAKE_NODE", "5000")
	_, err = fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("DB_MAX_CONNS", "0")
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionStringPrefiereURL(t *testing.T) {
	c := DBConfig{DatabaseURL: "postgres://x@y/z", Host: "h"}
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())

	c = DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "caja", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/caja?sslmode=disable", c.ConnectionString())
}
