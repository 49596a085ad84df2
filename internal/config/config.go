package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultTimeout     = 60 * time.Second
)

// Config holds all configuration for the order extraction server.
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Extraction configuration
	PDFDirectory string
	PageSelector string // "all", "2-5" or "1,3,7"
	ExtractMode  string // "stream" or "lattice"
	ModeFallback bool   // retry once with the opposite mode on zero tables
	Timeout      time.Duration
	DateOrder    string // "mdy" or "dmy" ambiguous-date policy
	MaxFileSize  int64

	// One-shot CLI mode: process File and write outputs instead of serving.
	File      string
	OutputDir string
	Format    string // "csv" or "xlsx"

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
	LogFormat  string // "console" or "json"
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         ModeStdio,
		Host:         DefaultHost,
		Port:         DefaultPort,
		PDFDirectory: currentDir,
		PageSelector: "all",
		ExtractMode:  "stream",
		ModeFallback: true,
		Timeout:      DefaultTimeout,
		DateOrder:    "mdy",
		MaxFileSize:  DefaultMaxFileSize,
		OutputDir:    currentDir,
		Format:       "csv",
		Version:      "1.0.0",
		ServerName:   "pdf-order-extractor",
		LogLevel:     DefaultLogLevel,
		LogFormat:    "console",
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("ORDER_PDF")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("pages", cfg.PageSelector)
	viper.SetDefault("extractmode", cfg.ExtractMode)
	viper.SetDefault("fallback", cfg.ModeFallback)
	viper.SetDefault("timeout", cfg.Timeout)
	viper.SetDefault("dateorder", cfg.DateOrder)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("file", cfg.File)
	viper.SetDefault("outdir", cfg.OutputDir)
	viper.SetDefault("format", cfg.Format)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("logformat", cfg.LogFormat)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.PDFDirectory, "Default directory containing order PDFs")
	pflag.String("pages", cfg.PageSelector, "Page selector: 'all', a range like '2-5', or a list like '1,3,7'")
	pflag.String("extractmode", cfg.ExtractMode, "Table detection mode: 'stream' or 'lattice'")
	pflag.Bool("fallback", cfg.ModeFallback, "Retry once with the opposite detection mode when no tables are found")
	pflag.Duration("timeout", cfg.Timeout, "Wall-clock timeout per document")
	pflag.String("dateorder", cfg.DateOrder, "Ambiguous date policy: 'mdy' or 'dmy'")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.String("file", cfg.File, "Process this PDF once and exit instead of serving")
	pflag.String("outdir", cfg.OutputDir, "Output directory for one-shot exports")
	pflag.String("format", cfg.Format, "One-shot export format: 'csv' or 'xlsx'")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.String("logformat", cfg.LogFormat, "Log format (console, json)")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "pages", "extractmode", "fallback",
		"timeout", "dateorder", "maxfilesize", "file", "outdir", "format",
		"loglevel", "logformat",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nPDF Order Extractor - converts order/invoice PDFs into structured order records\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                        # MCP stdio mode (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --file=order.pdf --format=xlsx         # one-shot extraction to a workbook\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --file=order.pdf --pages=1-3           # restrict extraction to pages 1-3\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --extractmode=lattice --fallback=false # delimiter-drawn tables only\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  ORDER_PDF_MODE         Server mode\n")
		fmt.Fprintf(os.Stderr, "  ORDER_PDF_DIR          Default PDF directory\n")
		fmt.Fprintf(os.Stderr, "  ORDER_PDF_PAGES        Page selector\n")
		fmt.Fprintf(os.Stderr, "  ORDER_PDF_EXTRACTMODE  Table detection mode\n")
		fmt.Fprintf(os.Stderr, "  ORDER_PDF_DATEORDER    Ambiguous date policy\n")
		fmt.Fprintf(os.Stderr, "  ORDER_PDF_TIMEOUT      Per-document timeout\n")
		fmt.Fprintf(os.Stderr, "  ORDER_PDF_LOGLEVEL     Log level\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.PageSelector = viper.GetString("pages")
	cfg.ExtractMode = viper.GetString("extractmode")
	cfg.ModeFallback = viper.GetBool("fallback")
	cfg.Timeout = viper.GetDuration("timeout")
	cfg.DateOrder = viper.GetString("dateorder")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.File = viper.GetString("file")
	cfg.OutputDir = viper.GetString("outdir")
	cfg.Format = viper.GetString("format")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.LogFormat = viper.GetString("logformat")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.ExtractMode != "stream" && c.ExtractMode != "lattice" {
		return fmt.Errorf("invalid extraction mode: %s (must be 'stream' or 'lattice')", c.ExtractMode)
	}

	if c.DateOrder != "mdy" && c.DateOrder != "dmy" {
		return fmt.Errorf("invalid date order policy: %s (must be 'mdy' or 'dmy')", c.DateOrder)
	}

	if c.Format != "csv" && c.Format != "xlsx" {
		return fmt.Errorf("invalid export format: %s (must be 'csv' or 'xlsx')", c.Format)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// InitLogger builds a zap logger from the configuration and installs it
// as the global logger. Output goes to stderr so stdio-mode logging
// never interferes with the MCP protocol on stdout.
func (c *Config) InitLogger() (*zap.Logger, error) {
	var zapCfg zap.Config
	if c.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	return logger, nil
}

// Address returns the server address as host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsOneShot returns true when a single file should be processed instead
// of serving.
func (c *Config) IsOneShot() bool {
	return c.File != ""
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Pages: %s, ExtractMode: %s, Fallback: %t, Timeout: %s, DateOrder: %s, MaxFileSize: %d}",
		c.Mode, c.PageSelector, c.ExtractMode, c.ModeFallback, c.Timeout, c.DateOrder, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode.
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode.
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
