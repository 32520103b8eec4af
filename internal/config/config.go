package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type JWTConfig struct {
	Secret        string `yaml:"secret"`
	ExpiryMinutes int    `yaml:"expiry_minutes"`
}

func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryMinutes) * time.Minute
}

type TOTPConfig struct {
	Issuer string `yaml:"issuer"`
}

type OrthancConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DryRun   bool   `yaml:"dry_run"`
}

type FilesConfig struct {
	RootDir string `yaml:"root_dir"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	JWT   JWTConfig  `yaml:"jwt"`
	TOTP  TOTPConfig `yaml:"totp"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Files   FilesConfig   `yaml:"files"`
	Orthanc OrthancConfig `yaml:"orthanc"`
}

func LoadConfig() *Config {
	cfg, err := LoadConfigFrom("config/config.yaml")
	if err != nil {
		panic("Failed to load config.yaml: " + err.Error())
	}
	return cfg
}

func LoadConfigFrom(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	if cfg.JWT.ExpiryMinutes <= 0 {
		cfg.JWT.ExpiryMinutes = 60
	}
	if cfg.TOTP.Issuer == "" {
		cfg.TOTP.Issuer = "MedResearch"
	}
	return &cfg, nil
}
