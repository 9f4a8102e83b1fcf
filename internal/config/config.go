package config

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/christa-jose1/student-migration-portal/pkg/log"
	"github.com/christa-jose1/student-migration-portal/pkg/pubsub"
)

type Config struct {
	Server Server        `mapstructure:"server"`
	Mongo  Mongo         `mapstructure:"mongo"`
	Redis  pubsub.Config `mapstructure:"redis"`
	Cache  Cache         `mapstructure:"cache"`
	Auth   Auth          `mapstructure:"auth"`
	CORS   CORS          `mapstructure:"cors"`
	Log    log.Config    `mapstructure:"log"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type Mongo struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type Cache struct {
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type Auth struct {
	Secret        string        `mapstructure:"secret"`
	TokenDuration time.Duration `mapstructure:"token_duration"`
	Issuer        string        `mapstructure:"issuer"`
}

type CORS struct {
	Origins []string `mapstructure:"origins"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "migration_portal")
	v.SetDefault("mongo.connect_timeout", "10s")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("cache.prefix", "portal:users")
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("auth.token_duration", "24h")
	v.SetDefault("auth.issuer", "student-migration-portal")
	v.SetDefault("cors.origins", []string{"http://localhost:5173"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.service_name", "portal-server")

	// Env overrides (for Docker)
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("mongo.uri", "MONGO_URI")
	_ = v.BindEnv("mongo.database", "MONGO_DATABASE")
	_ = v.BindEnv("redis.address", "REDIS_ADDRESS")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("auth.secret", "AUTH_SECRET")
	_ = v.BindEnv("log.level", "LOG_LEVEL")

	// The config file is optional; env vars and defaults suffice.
	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
