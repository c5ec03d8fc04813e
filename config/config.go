// Package config loads the indexer daemon configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

// Database drivers the daemon understands.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	RPCURL          string `toml:"RPCURL"`
	ContractAddress string `toml:"ContractAddress"`
	StartBlock      uint64 `toml:"StartBlock"`

	DatabaseDriver string `toml:"DatabaseDriver"`
	DatabaseDSN    string `toml:"DatabaseDSN"`

	APIListenAddress     string `toml:"APIListenAddress"`
	MetricsListenAddress string `toml:"MetricsListenAddress"`

	LogFile string `toml:"LogFile"`

	OTLPEndpoint string `toml:"OTLPEndpoint"`
	OTLPInsecure bool   `toml:"OTLPInsecure"`
	OTLPTraces   bool   `toml:"OTLPTraces"`
	OTLPMetrics  bool   `toml:"OTLPMetrics"`
}

// Load reads the configuration from path, writing a commented default file
// when none exists yet.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("config: RPCURL is required")
	}
	if !common.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("config: ContractAddress %q is not a hex address", c.ContractAddress)
	}
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown DatabaseDriver %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("config: DatabaseDSN is required")
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		RPCURL:               "ws://localhost:8546",
		ContractAddress:      "0x0000000000000000000000000000000000000000",
		StartBlock:           0,
		DatabaseDriver:       DriverSQLite,
		DatabaseDSN:          "file:srxgraph.db",
		APIListenAddress:     ":8080",
		MetricsListenAddress: ":9090",
	}
}

func createDefault(path string) (*Config, error) {
	cfg := defaultConfig()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create config dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create config %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}
	return cfg, nil
}
