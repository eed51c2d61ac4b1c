package config

import (
	"io/ioutil"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	db "github.com/grvlle/qanda/db"
)

// Config is the application configuration read from config.yaml
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Database struct {
		Dialect         string        `yaml:"dialect"`
		DSN             string        `yaml:"dsn"`
		MaxIdleConns    int           `yaml:"maxIdleConns"`
		MaxOpenConns    int           `yaml:"maxOpenConns"`
		ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
		Debug           bool          `yaml:"debug"`
	} `yaml:"database"`

	Pagination db.Pagination `yaml:"pagination"`

	Slack struct {
		APIToken       string `yaml:"apiToken"`
		GeneralChannel string `yaml:"generalChannel"`
	} `yaml:"slack"`

	LogLevel string `yaml:"logLevel"`
}

var dialects = map[string]bool{"mysql": true, "postgres": true, "sqlite3": true}

// Default returns the configuration used for every value the file
// leaves out.
func Default() *Config {
	c := new(Config)
	c.Server.Addr = ":8000"
	c.Database.Dialect = "mysql"
	c.Database.DSN = "root:qbot@/qanda?charset=utf8&parseTime=True&loc=Local"
	c.Database.MaxIdleConns = 50
	c.Database.MaxOpenConns = 200
	c.Database.ConnMaxLifetime = 100 * time.Second
	c.Pagination = db.DefaultPagination()
	c.LogLevel = "info"
	return c
}

// LoadConfig reads the YAML file at path on top of Default, then
// applies environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	c := Default()
	content, err := ioutil.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Wrapf(err, "unable to read %s", path)
	default:
		if err := yaml.Unmarshal(content, c); err != nil {
			return nil, errors.Wrapf(err, "unable to parse %s", path)
		}
	}
	c.applyEnv()
	return c, c.Validate()
}

// LoadDotEnv loads variables from the given .env files into the
// environment, skipping files that do not exist.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "unable to load %s", f)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("QANDA_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("QANDA_DB_DIALECT"); v != "" {
		c.Database.Dialect = v
	}
	if v := os.Getenv("QANDA_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("QANDA_SLACK_TOKEN"); v != "" {
		c.Slack.APIToken = v
	}
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	if !dialects[c.Database.Dialect] {
		return errors.Errorf("unsupported database dialect %q", c.Database.Dialect)
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn is empty")
	}
	if c.Pagination.PageSize < 1 || c.Pagination.RelatedPageSize < 1 {
		return errors.Errorf("page sizes must be positive, got %d/%d",
			c.Pagination.PageSize, c.Pagination.RelatedPageSize)
	}
	return nil
}

// DatabaseOptions converts the database section for db.InitializeDB.
func (c *Config) DatabaseOptions() db.Options {
	return db.Options{
		Dialect:         c.Database.Dialect,
		DSN:             c.Database.DSN,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		Debug:           c.Database.Debug,
	}
}
