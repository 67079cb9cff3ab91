package config

import (
	"fmt"
	"net/url"

	_ "github.com/joho/godotenv/autoload"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config holds connection and logging settings read from the environment
// (and from a .env file in the working directory, when present).
type Config struct {
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	Host          string `envconfig:"DB_HOST" default:"localhost"`
	Port          string `envconfig:"DB_PORT" default:"5432"`
	User          string `envconfig:"DB_USERNAME"`
	Password      string `envconfig:"DB_PASSWORD"`
	Database      string `envconfig:"DB_DATABASE" default:"chinook"`
	SSLMode       string `envconfig:"DB_SSLMODE" default:"disable"`
	AdminUser     string `envconfig:"DB_ADMIN_USER"`
	AdminPassword string `envconfig:"DB_ADMIN_PASSWORD"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, errors.Wrap(err, "failed to read environment")
	}
	if c.DatabaseURL == "" && c.Database == "" {
		return nil, errors.New("DB_DATABASE environment variable is required")
	}
	return &c, nil
}

// DSN returns the postgres:// URL of the target database.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.build(c.User, c.Password, c.Database)
}

// AdminDSN points at the maintenance database, used to create the target
// database when it does not exist yet.
func (c *Config) AdminDSN() string {
	user, password := c.AdminUser, c.AdminPassword
	if user == "" {
		user, password = c.User, c.Password
	}
	return c.build(user, password, "postgres")
}

// Redacted is DSN with the password masked.
func (c *Config) Redacted() string {
	u, err := url.Parse(c.DSN())
	if err != nil {
		return "postgres://***"
	}
	return u.Redacted()
}

func (c *Config) build(user, password, database string) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:   "/" + database,
	}
	switch {
	case user != "" && password != "":
		u.User = url.UserPassword(user, password)
	case user != "":
		u.User = url.User(user)
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
