package domain

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Installer InstallerConfig `mapstructure:"installer"`
	NetTest   NetTestConfig   `mapstructure:"net_test"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains intake API configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// StorageConfig contains download destination and queue persistence paths
type StorageConfig struct {
	DownloadDir  string `mapstructure:"download_dir"`
	DatabasePath string `mapstructure:"database_path"`
}

// InstallerConfig describes the external install/flash pipeline entry point
type InstallerConfig struct {
	Binary string   `mapstructure:"binary"`
	Args   []string `mapstructure:"args"`
}

// NetTestConfig contains throughput test configuration
type NetTestConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Storage: StorageConfig{
			DownloadDir:  "$HOME/Downloads/sysmod",
			DatabasePath: "$HOME/.sysmod/subjects.db",
		},
		Installer: InstallerConfig{
			Binary: "sysmod-flash",
		},
		NetTest: NetTestConfig{
			Endpoint: DefaultTestEndpoint,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
