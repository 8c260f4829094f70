package config

import (
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

type Server struct {
	HTTPPort   int    `default:"8080" validate:"gte=1,lte=65535"`
	ServerMode string `default:"dev" validate:"oneof=dev prod"`
}

type Database struct {
	Path string `default:":memory:" validate:"required"`
}

type Query struct {
	DefaultLimit int `default:"100" validate:"gte=1"`
	MaxLimit     int `default:"1000" validate:"gte=1"`
}

type Logging struct {
	Level string `default:"info" validate:"oneof=debug info warn error"`
}

type Configuration struct {
	Server   Server
	Database Database
	Query    Query
	Models   Models
	Logging  Logging
}

type Models struct {
	// File is the path to the model definition file loaded at startup.
	// Empty means no models are registered.
	File string
}

// NewConfigurationWithOptionsAndDefaults builds a configuration with struct
// defaults applied and the given options on top.
func NewConfigurationWithOptionsAndDefaults(opts ...Option) *Configuration {
	cfg := &Configuration{}
	_ = defaults.Set(cfg)
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks the configuration against its struct tags.
func (c *Configuration) Validate() error {
	return validator.New().Struct(c)
}

type Option func(*Configuration)

func WithHTTPPort(port int) Option {
	return func(c *Configuration) {
		c.Server.HTTPPort = port
	}
}

func WithServerMode(mode string) Option {
	return func(c *Configuration) {
		c.Server.ServerMode = mode
	}
}

func WithDatabasePath(path string) Option {
	return func(c *Configuration) {
		c.Database.Path = path
	}
}

func WithModelsFile(path string) Option {
	return func(c *Configuration) {
		c.Models.File = path
	}
}
