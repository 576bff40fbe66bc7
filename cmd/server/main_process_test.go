package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"paysentry.backend/internal/config"
)

func TestRunMainProcess_RedisFailure(t *testing.T) {
	origRedis := initRedis
	initRedis = func(url, password string) error { return errors.New("redis down") }
	defer func() { initRedis = origRedis }()

	err := runMainProcess()
	require.Error(t, err)
	require.Contains(t, err.Error(), "redis")
}

func TestRunMainProcess_DBOpenFailure(t *testing.T) {
	origRedis := initRedis
	origOpen := openDB
	initRedis = func(url, password string) error { return nil }
	openDB = func(dsn string) (*gorm.DB, error) { return nil, errors.New("dial refused") }
	defer func() {
		initRedis = origRedis
		openDB = origOpen
	}()

	err := runMainProcess()
	require.Error(t, err)
	require.Contains(t, err.Error(), "database")
}

func TestConfigDefaultsFeedWiring(t *testing.T) {
	cfg := config.Load()
	require.NotEmpty(t, cfg.Server.Port)
	require.NotEmpty(t, cfg.Database.URL())
}
