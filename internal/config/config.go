package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type AppConfig struct {
	Env     string `yaml:"env" env:"ENV" env-default:"local"`
	BaseDir string `yaml:"base_dir" env:"BASE_DIR" env-default:"./tdlib"`
	Workers int    `yaml:"workers" env:"WORKERS" env-default:"8"`

	ApiID    int32  `env:"TELEGRAM_API_ID" env-required:"true"`
	ApiHash  string `env:"TELEGRAM_API_HASH" env-required:"true"`
	BotToken string `env:"PET_HOME_TOKEN" env-required:"true"`

	PetHome    PetHomeConfig    `yaml:"pet_home"`
	Redis      RedisConfig      `yaml:"redis"`
	LoginGuard LoginGuardConfig `yaml:"login_guard"`
	Proxy      ProxyConfig      `yaml:"proxy"`
}

type PetHomeConfig struct {
	Addr    string        `yaml:"addr" env:"PET_HOME_ADDR" env-required:"true"`
	Port    string        `yaml:"port" env:"PET_HOME_PORT" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env:"PET_HOME_TIMEOUT" env-default:"10s"`
	Retries int           `yaml:"retries" env:"PET_HOME_RETRIES" env-default:"3"`
}

func (c PetHomeConfig) BaseURL() string {
	return "http://" + net.JoinHostPort(c.Addr, c.Port)
}

type RedisConfig struct {
	// URL is optional; without it the login guard is disabled.
	URL string `yaml:"url" env:"REDIS_URL"`
}

type LoginGuardConfig struct {
	Limit  int           `yaml:"limit" env:"LOGIN_GUARD_LIMIT" env-default:"5"`
	Window time.Duration `yaml:"window" env:"LOGIN_GUARD_WINDOW" env-default:"15m"`
}

// ProxyConfig is an optional SOCKS5 proxy for TDLib.
type ProxyConfig struct {
	Enabled  bool   `yaml:"enabled" env:"PROXY_ENABLED"`
	Server   string `yaml:"server" env:"PROXY_SERVER"`
	Port     int32  `yaml:"port" env:"PROXY_PORT"`
	Username string `yaml:"username" env:"PROXY_USERNAME"`
	Password string `yaml:"password" env:"PROXY_PASSWORD"`
}

// Load reads the YAML file named by -config or CONFIG_PATH, if any, and
// then the environment, which wins.
func Load() (*AppConfig, error) {
	return LoadPath(fetchConfigPath())
}

func LoadPath(path string) (*AppConfig, error) {
	var cfg AppConfig
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if cfg.Proxy.Enabled && (cfg.Proxy.Server == "" || cfg.Proxy.Port == 0) {
		return nil, fmt.Errorf("proxy enabled but server or port is empty")
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	return &cfg, nil
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	return res
}
