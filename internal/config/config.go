package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	BackendSQL       = "sql"
	BackendFirestore = "firestore"

	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Firestore FirestoreConfig `mapstructure:"firestore"`
	User      UserConfig      `mapstructure:"user"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Reports   ReportsConfig   `mapstructure:"reports"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=sql firestore"`
}

type DatabaseConfig struct {
	Driver          string            `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Path            string            `mapstructure:"path"`
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type FirestoreConfig struct {
	ProjectID     string `mapstructure:"project_id"`
	Database      string `mapstructure:"database"`
	BaseURL       string `mapstructure:"base_url" validate:"omitempty,url"`
	Token         string `mapstructure:"token"`
	RetryAttempts uint   `mapstructure:"retry_attempts" validate:"min=1"`
}

type UserConfig struct {
	ID string `mapstructure:"id"`
}

type ReminderConfig struct {
	Time       string `mapstructure:"time" validate:"clock"`
	Timezone   string `mapstructure:"timezone" validate:"omitempty,timezone"`
	WebhookURL string `mapstructure:"webhook_url" validate:"omitempty,url"`
}

type ReportsConfig struct {
	OutputDirectory string `mapstructure:"output_directory"`
	// Template is optional; the embedded report template is used when empty.
	Template string `mapstructure:"template" validate:"omitempty,file"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/studyplanner")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("storage.backend", BackendSQL)
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", filepath.Join("data", "studyplanner.db"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "studyplanner")
	v.SetDefault("database.username", "user")
	v.SetDefault("firestore.database", "(default)")
	v.SetDefault("firestore.base_url", "https://firestore.googleapis.com/v1")
	v.SetDefault("firestore.retry_attempts", 3)
	v.SetDefault("user.id", "local")
	v.SetDefault("reminder.time", "08:00")
	v.SetDefault("reminder.timezone", "America/Sao_Paulo")
	v.SetDefault("reports.output_directory", filepath.Join("outputs", "reports"))
	v.SetDefault("reports.template", "")

	// Secrets are read from the environment only
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("firestore.token", "FIRESTORE_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind FIRESTORE_TOKEN environment variable: %w", err)
	}
	if err := v.BindEnv("reminder.webhook_url", "REMINDER_WEBHOOK_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind REMINDER_WEBHOOK_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	var errorMsgs []string
	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("validator.Struct() > %w", err)
		}
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
	}
	errorMsgs = append(errorMsgs, cfg.backendErrors()...)
	if len(errorMsgs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// backendErrors checks the settings the selected storage backend depends on.
func (cfg Config) backendErrors() []string {
	var msgs []string
	switch cfg.Storage.Backend {
	case BackendFirestore:
		if cfg.Firestore.ProjectID == "" {
			msgs = append(msgs, "firestore.project_id is required when storage.backend is firestore")
		}
	case BackendSQL:
		if cfg.Database.Driver == DriverSQLite && cfg.Database.Path == "" {
			msgs = append(msgs, "database.path is required when database.driver is sqlite")
		}
	}
	return msgs
}
