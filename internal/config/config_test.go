package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	req.NoError(err)
	req.Equal(5000, cfg.Server.Port)
	req.Equal("mongodb://localhost:27017", cfg.Mongo.URI)
	req.Equal("migration_portal", cfg.Mongo.Database)
	req.Equal(30*time.Second, cfg.Cache.TTL)
	req.Equal(24*time.Hour, cfg.Auth.TokenDuration)
	req.Equal([]string{"http://localhost:5173"}, cfg.CORS.Origins)
}

func Test_Load_File(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  port: 9100\nmongo:\n  database: portal_test\nauth:\n  secret: file-secret\n")
	req.NoError(os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	req.NoError(err)
	req.Equal(9100, cfg.Server.Port)
	req.Equal("portal_test", cfg.Mongo.Database)
	req.Equal("file-secret", cfg.Auth.Secret)
	// Untouched keys keep their defaults.
	req.Equal("localhost:6379", cfg.Redis.Address)
}
