package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/icodeforyou/solarcalc-go/calc"
	"github.com/icodeforyou/solarcalc-go/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
	// If not assigned, the server will serve embedded files.
	// If assigned, the server will serve files from the directory,
	// that must contain a "static" and "templates" directory.
	// This is useful for development.
	WwwDir *string `mapstructure:"www_dir"`
	// Key used to sign the session cookie that remembers the last inputs
	SessionKey *string `mapstructure:"session_key"`
}

func (a AppConfigApi) GetSessionKey() []byte {
	if a.SessionKey == nil || *a.SessionKey == "" {
		return []byte("solarcalc-insecure-session-key")
	}
	return []byte(*a.SessionKey)
}

type AppConfigDatabase struct {
	Path string
	// How many days daily backup files should be stored before they gets deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 30
	}
	return *d.BackupRetentionDays
}

// AppConfigModel overrides the model assumptions, unassigned values keep the defaults.
type AppConfigModel struct {
	CostPerWatt     *float64 `mapstructure:"cost_per_watt"`     // Installed cost in USD/W
	GenerationPerKw *float64 `mapstructure:"generation_per_kw"` // Annual generation in kWh per kW-DC
	Escalation      *float64 `mapstructure:"escalation"`        // Annual electricity price escalation, 0.025 = 2.5%
	OMCostPerKw     *float64 `mapstructure:"om_cost_per_kw"`    // Operations and maintenance in USD/kW/yr
	ITCRate         *float64 `mapstructure:"itc_rate"`          // Investment tax credit, 0.30 = 30%
}

func (m AppConfigModel) GetConstants() calc.Constants {
	c := calc.DefaultConstants()
	if m.CostPerWatt != nil {
		c.CostPerWatt = *m.CostPerWatt
	}
	if m.GenerationPerKw != nil {
		c.GenerationPerKw = *m.GenerationPerKw
	}
	if m.Escalation != nil {
		c.Escalation = *m.Escalation
	}
	if m.OMCostPerKw != nil {
		c.OMCostPerKw = *m.OMCostPerKw
	}
	if m.ITCRate != nil {
		c.ITCRate = *m.ITCRate
	}
	return c
}

type AppConfigPrices struct {
	Default   *float64           `mapstructure:"default"`   // Price in USD/kWh for states without an entry, default: 0.13
	Overrides map[string]float64 `mapstructure:"overrides"` // State name to price in USD/kWh
}

func (p AppConfigPrices) GetDefault() float64 {
	if p.Default == nil {
		return 0.13
	}
	return *p.Default
}

type AppConfigMqtt struct {
	Enabled  bool
	Host     string
	Port     int16
	Username string
	Password string
	Topic    *string `mapstructure:"topic"` // default: "solarcalc/result"
}

func (m AppConfigMqtt) GetTopic() string {
	if m.Topic == nil {
		return "solarcalc/result"
	}
	return *m.Topic
}

type AppConfigMaintenance struct {
	RunAt *string `mapstructure:"run_at"` // Cron spec, default: "30 2 * * *"
}

func (m AppConfigMaintenance) GetRunAt() string {
	if m.RunAt == nil {
		return "30 2 * * *"
	}
	return *m.RunAt
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for database console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	return logging.AttrFormatFromString(l.DbAttrsFormat)
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api         AppConfigApi
	Database    AppConfigDatabase
	Model       AppConfigModel       `mapstructure:"model"`
	Prices      AppConfigPrices      `mapstructure:"prices"`
	Mqtt        AppConfigMqtt        `mapstructure:"mqtt"`
	Maintenance AppConfigMaintenance `mapstructure:"maintenance"`
	Logging     AppConfigLogging     `mapstructure:"logging"`
}

// Load reads the config file at path, or config/config.yaml when path is empty.
// Variables in a .env file in the working directory are exported first so they
// can override values through the environment.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to read .env file: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetDefault("api.port", 8080)
	v.SetDefault("database.path", "solarcalc.db")

	var c AppConfig

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
