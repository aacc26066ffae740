package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	Redis      RedisConfig      `json:"redis"`
	Payment    PaymentConfig    `json:"payment"`
	Cart       CartConfig       `json:"cart"`
	Reconciler ReconcilerConfig `json:"reconciler"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password"`
	DBName         string `json:"dbname"`
	SSLMode        string `json:"sslmode"`
	MigrationsPath string `json:"migrations_path"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// PaymentConfig points at the hosted checkout provider. ReturnURL is the
// storefront base the provider redirects back to; the reference id is
// appended as /payment/{ref}.
type PaymentConfig struct {
	APIURL         string `json:"api_url"`
	SecretKey      string `json:"secret_key"`
	ReturnURL      string `json:"return_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type CartConfig struct {
	MinItemCount int `json:"min_item_count"`
	MaxItemCount int `json:"max_item_count"`
}

type ReconcilerConfig struct {
	Enabled           bool `json:"enabled"`
	IntervalSeconds   int  `json:"interval_seconds"`
	PendingAgeSeconds int  `json:"pending_age_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Cart.MinItemCount == 0 {
		c.Cart.MinItemCount = 1
	}
	if c.Cart.MaxItemCount == 0 {
		c.Cart.MaxItemCount = 10
	}
	if c.Payment.TimeoutSeconds == 0 {
		c.Payment.TimeoutSeconds = 15
	}
	if c.Reconciler.IntervalSeconds == 0 {
		c.Reconciler.IntervalSeconds = 300
	}
	if c.Reconciler.PendingAgeSeconds == 0 {
		c.Reconciler.PendingAgeSeconds = 600
	}
}

func (c *PaymentConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *ReconcilerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c *ReconcilerConfig) PendingAge() time.Duration {
	return time.Duration(c.PendingAgeSeconds) * time.Second
}

func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}
