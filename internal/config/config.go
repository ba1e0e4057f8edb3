package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Minio     MinioConfig     `yaml:"minio"`
}

type TransportConfig struct {
	// Mode selects the serving mode: "http" or "stdio".
	Mode string `yaml:"mode"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AuthConfig struct {
	// JWTSecret signs and verifies bearer tokens. Empty disables JWT auth,
	// leaving API keys as the only scheme.
	JWTSecret string `yaml:"jwt_secret"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether object storage is configured.
func (m MinioConfig) Enabled() bool {
	return m.Endpoint != ""
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		DB: DBConfig{
			Path: "nestogy.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Minio: MinioConfig{
			Bucket: "contract-attachments",
		},
	}

	if path := os.Getenv("NESTOGY_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("NESTOGY_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("NESTOGY_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NESTOGY_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("NESTOGY_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("NESTOGY_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("NESTOGY_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if secret := os.Getenv("NESTOGY_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if endpoint := os.Getenv("NESTOGY_MINIO_ENDPOINT"); endpoint != "" {
		cfg.Minio.Endpoint = endpoint
	}
	if accessKey := os.Getenv("NESTOGY_MINIO_ACCESS_KEY"); accessKey != "" {
		cfg.Minio.AccessKey = accessKey
	}
	if secretKey := os.Getenv("NESTOGY_MINIO_SECRET_KEY"); secretKey != "" {
		cfg.Minio.SecretKey = secretKey
	}
	if bucket := os.Getenv("NESTOGY_MINIO_BUCKET"); bucket != "" {
		cfg.Minio.Bucket = bucket
	}
	if ssl := os.Getenv("NESTOGY_MINIO_USE_SSL"); ssl != "" {
		useSSL, err := strconv.ParseBool(ssl)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NESTOGY_MINIO_USE_SSL: %w", err)
		}
		cfg.Minio.UseSSL = useSSL
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
