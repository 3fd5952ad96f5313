package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local" validate:"oneof=local dev prod"`
	Backends BackendsConfig `yaml:"backends"`
	Client   ClientConfig   `yaml:"client"`
	Storage  StorageConfig  `yaml:"storage"`
	HTTP     HTTPConfig     `yaml:"http"`
}

type BackendsConfig struct {
	ProductURL string `yaml:"product_url" env:"PRODUCT_API_URL" env-default:"https://product.pgmbusiness.com" validate:"required,url"`
	UserURL    string `yaml:"user_url" env:"USER_API_URL" env-default:"https://user.pgmbusiness.com" validate:"required,url"`
	CoreURL    string `yaml:"core_url" env:"CORE_ASSOCIATE_API_URL" env-default:"https://core.pgmbusiness.com" validate:"required,url"`
	PaymentURL string `yaml:"payment_url" env:"PAYMENT_API_URL" env-default:"https://core.pgmbusiness.com" validate:"required,url"`
}

type ClientConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"CLIENT_TIMEOUT" env-default:"10s" validate:"gt=0"`
}

type StorageConfig struct {
	Driver      string            `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file" validate:"oneof=memory file redis postgres"`
	DSN         string            `yaml:"dsn" env:"STORAGE_DSN" validate:"required_if=Driver postgres"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	Redis       RedisConf         `yaml:"redis"`
}

type FileStorageConfig struct {
	BaseDir      string        `yaml:"base_dir" env:"STORAGE_DIR" env-default:".pgm_storefront"`
	PollInterval time.Duration `yaml:"poll_interval" env:"STORAGE_POLL_INTERVAL" env-default:"1s" validate:"gt=0"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redispassword" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
	Prefix        string `yaml:"prefix" env:"REDIS_PREFIX" env-default:"pgm_storefront:"`
}

type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"127.0.0.1"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// MustLoad reads the file given by --config or CONFIG_PATH. Without either
// the configuration comes from the environment alone.
func MustLoad() *Config {
	cfg, err := Load(fetchConfigPath())
	if err != nil {
		panic("cannot read config: " + err.Error())
	}

	return cfg
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		panic("cannot read config: " + err.Error())
	}

	return cfg
}

// Load applies .env from the working directory, then the yaml file at path
// (if any) overridden by the environment.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
