package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
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

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the legal search server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Document configuration
	DocumentsDirectory string
	ExportDirectory    string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:               ModeStdio, // Default to stdio mode for MCP compatibility
		Host:               DefaultHost,
		Port:               DefaultPort,
		DocumentsDirectory: currentDir,
		ExportDirectory:    filepath.Join(currentDir, "exports"),
		Version:            "1.0.0",
		ServerName:         "mcp-legal-search",
		LogLevel:           DefaultLogLevel,
		MaxFileSize:        DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.DocumentsDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.DocumentsDirectory); err == nil {
			cfg.DocumentsDirectory = expandedPath
		}
	}
	if cfg.ExportDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.ExportDirectory); err == nil {
			cfg.ExportDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("LEGAL_SEARCH")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.DocumentsDirectory)
	viper.SetDefault("exportdir", cfg.ExportDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.DocumentsDirectory, "Directory containing legal PDF documents")
	pflag.String("exportdir", cfg.ExportDirectory, "Directory XLSX exports are written to")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("exportdir", pflag.Lookup("exportdir"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Legal Search - search and analyze legal PDF documents\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                   "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/boletines          "+
			"# stdio mode with custom documents directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --exportdir=/path/to/exports      # custom export directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  LEGAL_SEARCH_MODE        Server mode\n")
		fmt.Fprintf(os.Stderr, "  LEGAL_SEARCH_HOST        Server host\n")
		fmt.Fprintf(os.Stderr, "  LEGAL_SEARCH_PORT        Server port\n")
		fmt.Fprintf(os.Stderr, "  LEGAL_SEARCH_DIR         Documents directory\n")
		fmt.Fprintf(os.Stderr, "  LEGAL_SEARCH_EXPORTDIR   Export directory\n")
		fmt.Fprintf(os.Stderr, "  LEGAL_SEARCH_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  LEGAL_SEARCH_MAXFILESIZE Maximum file size\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DocumentsDirectory = viper.GetString("dir")
	cfg.ExportDirectory = viper.GetString("exportdir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.DocumentsDirectory == "" {
		return errors.New("documents directory cannot be empty")
	}
	if c.ExportDirectory == "" {
		return errors.New("export directory cannot be empty")
	}

	// Create missing directories rather than failing startup
	for _, dir := range []string{c.DocumentsDirectory, c.ExportDirectory} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", dir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access directory %s: %w", dir, err)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
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

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Mode: %s, Host: %s, Port: %d, DocumentsDirectory: %s, ExportDirectory: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.DocumentsDirectory, c.ExportDirectory, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
