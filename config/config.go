package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Environment   string        `mapstructure:"environment"`
	ServerAddress string        `mapstructure:"server.address"`
	ServerTimeout time.Duration `mapstructure:"server.timeout"`
	CorsEnabled   bool          `mapstructure:"server.cors_enabled"`
	CorsOrigins   []string      `mapstructure:"server.cors_origins"`
	LogLevel      string        `mapstructure:"logging.level"`
	LogFormat     string        `mapstructure:"logging.format"`
	DB            DatabaseConfig
	Redis         RedisConfig
	Elastic       ElasticConfig
	Email         EmailConfig
	Export        ExportConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"database.driver"`
	DSN             string        `mapstructure:"database.dsn"`
	MaxOpenConns    int           `mapstructure:"database.max_open_conns"`
	MaxIdleConns    int           `mapstructure:"database.max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"database.conn_max_lifetime"`
	Debug           bool          `mapstructure:"database.debug"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"redis.host"`
	Port     int    `mapstructure:"redis.port"`
	Password string `mapstructure:"redis.password"`
	DB       int    `mapstructure:"redis.db"`
	Enabled  bool   `mapstructure:"redis.enabled"`
}

// ElasticConfig holds Elasticsearch configuration
type ElasticConfig struct {
	URL      string `mapstructure:"elastic.url"`
	Username string `mapstructure:"elastic.username"`
	Password string `mapstructure:"elastic.password"`
	Index    string `mapstructure:"elastic.index"`
	Enabled  bool   `mapstructure:"elastic.enabled"`
}

// EmailConfig holds SMTP notification configuration
type EmailConfig struct {
	SMTPHost string `mapstructure:"email.smtp_host"`
	SMTPPort int    `mapstructure:"email.smtp_port"`
	Username string `mapstructure:"email.username"`
	Password string `mapstructure:"email.password"`
	From     string `mapstructure:"email.from"`
	Enabled  bool   `mapstructure:"email.enabled"`
}

// ExportConfig holds spreadsheet export configuration
type ExportConfig struct {
	ExcelPath        string        `mapstructure:"export.excel_path"`
	SheetsWebhookURL string        `mapstructure:"export.sheets_webhook_url"`
	Interval         time.Duration `mapstructure:"export.interval"`
	BackupDir        string        `mapstructure:"export.backup_dir"`
}

// LoadConfig reads configuration from file or environment variables
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Setup configuration paths
	v.AddConfigPath(path)
	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Continue even if no config file is found - we'll use ENV vars and defaults
			fmt.Printf("Warning: No configuration file found: %v\n", err)
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Enable environment variables to override config
	v.SetEnvPrefix("FERRAMENTAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Core settings
	v.SetDefault("environment", "development")
	v.SetDefault("server.address", "0.0.0.0:8000")
	v.SetDefault("server.timeout", "30s")
	v.SetDefault("server.cors_enabled", true)
	v.SetDefault("server.cors_origins", []string{"*"})

	// Database settings
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "ferramentas.db")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.debug", false)

	// Redis settings
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", false)

	// Elasticsearch settings
	v.SetDefault("elastic.url", "http://localhost:9200")
	v.SetDefault("elastic.index", "movimentacoes")
	v.SetDefault("elastic.enabled", false)

	// Email settings
	v.SetDefault("email.smtp_host", "smtp.gmail.com")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.enabled", false)

	// Export settings
	v.SetDefault("export.excel_path", "Controle_Ferramentas.xlsx")
	v.SetDefault("export.sheets_webhook_url", "")
	v.SetDefault("export.interval", "15m")
	v.SetDefault("export.backup_dir", ".")

	// Logging settings
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
