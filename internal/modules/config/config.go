package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"signal_dashboard/internal/models"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDirENV      = "CONFIG_DIR"

	defaultConfigFile = "values_local.yaml"
	defaultConfigDir  = "configs"

	oandaPracticeURL = "https://api-fxpractice.oanda.com"
	oandaLiveURL     = "https://api-fxtrade.oanda.com"
)

// Config ...
type Config struct {
	Service struct {
		Host            string        `mapstructure:"host"`
		Port            int           `mapstructure:"port"`
		RefreshInterval time.Duration `mapstructure:"refresh_interval"` // dashboard auto-refresh and websocket push period
		Version         string        `mapstructure:"version"`
		ProbeOnStart    bool          `mapstructure:"probe_on_start"` // проверить источник свечей при старте
	} `mapstructure:"service"`

	OANDA struct {
		APIKey  string        `mapstructure:"api_key"`
		Env     string        `mapstructure:"env"` // practice | live
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"oanda"`

	// Demo включает синтетические свечи. Без api_key демо включается само.
	Demo bool `mapstructure:"demo"`

	Evaluator struct {
		Lookback int `mapstructure:"lookback"` // candles per timeframe
	} `mapstructure:"evaluator"`

	Menu struct {
		Parallelism int `mapstructure:"parallelism"`
	} `mapstructure:"menu"`

	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`

	Tracing struct {
		Enabled     bool   `mapstructure:"enabled"`
		Host        string `mapstructure:"host"`
		Port        int    `mapstructure:"port"`
		ServiceName string `mapstructure:"service_name"`
	} `mapstructure:"tracing"`

	Telegram struct {
		Token  string `mapstructure:"token"`
		ChatID int64  `mapstructure:"chat_id"`
	} `mapstructure:"telegram"`

	// AssetsFile — yaml with the menu. Empty means the built-in list.
	AssetsFile string `mapstructure:"assets_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.port", 10000)
	v.SetDefault("service.refresh_interval", "60s")
	v.SetDefault("service.version", "dev")
	v.SetDefault("service.probe_on_start", true)

	v.SetDefault("oanda.api_key", "")
	v.SetDefault("oanda.env", "practice")
	v.SetDefault("oanda.base_url", "")
	v.SetDefault("oanda.timeout", "12s")

	v.SetDefault("demo", false)
	v.SetDefault("evaluator.lookback", 200)
	v.SetDefault("menu.parallelism", 4)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)
	v.SetDefault("tracing.service_name", "signal-dashboard")

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)

	v.SetDefault("assets_file", "")
}

// NewConfig reads configs/<CONFIG_FILE> and applies environment overrides.
// A missing file is not an error: defaults plus env are enough to run.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = defaultConfigFile
	}
	configDir := os.Getenv(configDirENV)
	if configDir == "" {
		configDir = defaultConfigDir
	}

	return Load(filepath.Join(configDir, configFileName))
}

// Load reads the given yaml file (if present) with env overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("service.port", "SERVICE_PORT", "PORT")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, errors.Wrapf(err, "read config %s", path)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("service.port out of range: %d", c.Service.Port)
	}
	if c.Service.RefreshInterval <= 0 {
		return fmt.Errorf("service.refresh_interval must be positive")
	}
	if c.Evaluator.Lookback <= 0 {
		return fmt.Errorf("evaluator.lookback must be positive")
	}
	switch c.OANDA.Env {
	case "practice", "live":
	default:
		return fmt.Errorf("oanda.env must be practice or live, got %q", c.OANDA.Env)
	}
	if c.Menu.Parallelism <= 0 {
		c.Menu.Parallelism = 1
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Service.Host, c.Service.Port)
}

// OANDABaseURL — explicit base_url wins, otherwise picked by env.
func (c *Config) OANDABaseURL() string {
	if c.OANDA.BaseURL != "" {
		return strings.TrimRight(c.OANDA.BaseURL, "/")
	}
	if c.OANDA.Env == "live" {
		return oandaLiveURL
	}
	return oandaPracticeURL
}

// DemoMode — synthetic candles instead of OANDA.
func (c *Config) DemoMode() bool {
	return c.Demo || c.OANDA.APIKey == ""
}

type assetsFile struct {
	Assets []models.Asset `yaml:"assets"`
}

// NewRegistry loads the asset menu from AssetsFile or falls back to the built-in list.
func NewRegistry(cfg *Config) (*models.Registry, error) {
	if cfg.AssetsFile == "" {
		return models.NewRegistry(models.DefaultAssets())
	}

	data, err := os.ReadFile(cfg.AssetsFile)
	if err != nil {
		return nil, errors.Wrapf(err, "read assets file %s", cfg.AssetsFile)
	}
	return ParseAssets(data)
}

func ParseAssets(data []byte) (*models.Registry, error) {
	var af assetsFile
	if err := yaml.UnmarshalStrict(data, &af); err != nil {
		return nil, errors.Wrap(err, "decode assets")
	}
	if len(af.Assets) == 0 {
		return nil, errors.New("assets file has no assets")
	}
	return models.NewRegistry(af.Assets)
}
