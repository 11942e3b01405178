package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Config is the main configuration structure
type Config struct {
	Common      Common                      `yaml:"common"`
	Deployments map[string]DeploymentConfig `yaml:"deployments"`
}

// Status code tables selectable through http.status_codes
const (
	StatusCodesLegacy   = "legacy"
	StatusCodesStandard = "standard"
)

// Storage drivers selectable through storage.driver
const (
	StorageDriverMongo  = "mongo"
	StorageDriverMemory = "memory"
)

// Load loads the configuration following proper precedence: defaults → config file → environment variables.
// An empty configFile falls back to USERSTORE_CONFIG_FILE and then userstore.yaml.
func Load(configFile string) {
	LoadDefault()

	if configFile == "" {
		configFile = os.Getenv("USERSTORE_CONFIG_FILE")
	}
	if configFile == "" {
		configFile = "userstore.yaml"
	}

	if err := LoadFromFile(configFile); err != nil {
		log.Printf("Failed to load config file %s: %v, using defaults", configFile, err)
	} else {
		log.Printf("Loaded config from file: %s", configFile)
	}

	ApplyEnvOverrides()
}

// LoadDefault replaces the loaded configuration with a copy of the defaults.
func LoadDefault() {
	cfg := defaults()
	_loaded = &cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := defaults()

	// Merge YAML values over defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	_loaded = &cfg
	return nil
}

// defaults returns sane defaults for all of the config options. when loading the
// config from the file, any options that are not set keep these values.
func defaults() Config {
	return Config{
		Common: Common{
			Log: logConfig{
				Level:  "info",
				Format: "json",
			},
			Http: httpConfig{
				Host:            "0.0.0.0",
				Port:            8080,
				MaxRequestSize:  1048576,
				StatusCodes:     StatusCodesLegacy,
				ShutdownTimeout: "30s",
			},
			Storage: storageConfig{
				Driver: StorageDriverMongo,
			},
			Mongo: mongoConfig{
				Host:           "localhost",
				Port:           27017,
				ConnectTimeout: "30s",
			},
		},
		Deployments: map[string]DeploymentConfig{
			"account": {
				Database:   "local",
				Collection: "startup_log",
				ListAll:    false,
			},
			"api": {
				Database:   "team",
				Collection: "user",
				ListAll:    true,
			},
		},
	}
}

type Common struct {
	Log     logConfig     `yaml:"log"`
	Http    httpConfig    `yaml:"http"`
	Storage storageConfig `yaml:"storage"`
	Mongo   mongoConfig   `yaml:"mongo"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type httpConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	MaxRequestSize  int64  `yaml:"max_request_size"`
	StatusCodes     string `yaml:"status_codes"` // "legacy" or "standard"
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

func (c httpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c httpConfig) ShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

type storageConfig struct {
	Driver string `yaml:"driver"` // "mongo" or "memory"
}

type mongoConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	ConnectTimeout string `yaml:"connect_timeout"`
}

// URI returns the connection string in the mongodb://<host>:<port>/ form.
func (c mongoConfig) URI() string {
	return fmt.Sprintf("mongodb://%s:%d/", c.Host, c.Port)
}

func (c mongoConfig) ConnectTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ConnectTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// DeploymentConfig binds one service deployment to its database and collection.
type DeploymentConfig struct {
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
	ListAll    bool   `yaml:"list_all"`
}

// Validate checks the loaded values that have no sensible fallback.
func (c *Config) Validate() error {
	var err error

	switch c.Common.Http.StatusCodes {
	case StatusCodesLegacy, StatusCodesStandard:
	default:
		err = multierr.Append(err, fmt.Errorf("http.status_codes must be %q or %q, got %q",
			StatusCodesLegacy, StatusCodesStandard, c.Common.Http.StatusCodes))
	}

	switch c.Common.Storage.Driver {
	case StorageDriverMongo, StorageDriverMemory:
	default:
		err = multierr.Append(err, fmt.Errorf("storage.driver must be %q or %q, got %q",
			StorageDriverMongo, StorageDriverMemory, c.Common.Storage.Driver))
	}

	if c.Common.Mongo.Host == "" {
		err = multierr.Append(err, errors.New("mongo.host is required"))
	}
	if c.Common.Mongo.Port <= 0 || c.Common.Mongo.Port > 65535 {
		err = multierr.Append(err, errors.New("mongo.port must be between 1 and 65535"))
	}
	if _, perr := time.ParseDuration(c.Common.Mongo.ConnectTimeout); perr != nil {
		err = multierr.Append(err, fmt.Errorf("invalid mongo.connect_timeout format: %w", perr))
	}
	if _, perr := time.ParseDuration(c.Common.Http.ShutdownTimeout); perr != nil {
		err = multierr.Append(err, fmt.Errorf("invalid http.shutdown_timeout format: %w", perr))
	}
	if c.Common.Http.MaxRequestSize <= 0 {
		err = multierr.Append(err, errors.New("http.max_request_size must be a positive integer"))
	}

	for name, d := range c.Deployments {
		if d.Database == "" || d.Collection == "" {
			err = multierr.Append(err, fmt.Errorf("deployment %q requires both database and collection", name))
		}
	}

	return err
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Logger() logConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Log
}

func Http() httpConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Http
}

func Storage() storageConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Storage
}

func Mongo() mongoConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Mongo
}

// Deployment returns the storage binding for the named deployment.
func Deployment(name string) (DeploymentConfig, error) {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	d, ok := _loaded.Deployments[name]
	if !ok {
		return DeploymentConfig{}, fmt.Errorf("unknown deployment %q", name)
	}
	return d, nil
}

func Get() *Config {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded
}

func ApplyEnvOverrides() {
	if _loaded == nil {
		return
	}

	// MONGO_URL carries the host only, the port comes from MONGO_PORT
	if mongoHost := os.Getenv("MONGO_URL"); mongoHost != "" {
		_loaded.Common.Mongo.Host = mongoHost
	}
	if mongoPort := os.Getenv("MONGO_PORT"); mongoPort != "" {
		if port, err := strconv.Atoi(mongoPort); err == nil {
			_loaded.Common.Mongo.Port = port
		}
	}
	if timeout := os.Getenv("USERSTORE_CONNECT_TIMEOUT"); timeout != "" {
		_loaded.Common.Mongo.ConnectTimeout = timeout
	}

	if httpHost := os.Getenv("USERSTORE_HTTP_HOST"); httpHost != "" {
		_loaded.Common.Http.Host = httpHost
	}
	if httpPort := os.Getenv("USERSTORE_HTTP_PORT"); httpPort != "" {
		if port, err := strconv.Atoi(httpPort); err == nil {
			_loaded.Common.Http.Port = port
		}
	}
	if codes := os.Getenv("USERSTORE_STATUS_CODES"); codes != "" {
		_loaded.Common.Http.StatusCodes = codes
	}

	if driver := os.Getenv("USERSTORE_STORAGE_DRIVER"); driver != "" {
		_loaded.Common.Storage.Driver = driver
	}

	if level := os.Getenv("USERSTORE_LOG_LEVEL"); level != "" {
		_loaded.Common.Log.Level = level
	}
	if format := os.Getenv("USERSTORE_LOG_FORMAT"); format != "" {
		_loaded.Common.Log.Format = format
	}
}
