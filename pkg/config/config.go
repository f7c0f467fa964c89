package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"dev" validate:"required"`
	Log         struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stderr"`
	} `yaml:"log"`
	Data struct {
		Dir       string `yaml:"dir" default:"data/indice" validate:"required"`
		Alignment string `yaml:"alignment" default:"positional" validate:"oneof=positional date"`
		Files     Files  `yaml:"files"`
	} `yaml:"data"`
	Source struct {
		Type string `yaml:"type" default:"csv" validate:"oneof=csv clickhouse"`
	} `yaml:"source"`
	Output struct {
		FeatureTable  string `yaml:"feature_table" default:"data/indice/indicepanel.csv" validate:"required"`
		Plots         bool   `yaml:"plots" default:"true"`
		ScatterPlot   string `yaml:"scatter_plot" default:"out/train_scatter.png"`
		ScatterMatrix string `yaml:"scatter_matrix" default:"out/train_scatter_matrix.png"`
		MetricsFile   string `yaml:"metrics_file"`
	} `yaml:"output"`
	Split struct {
		TrainSize int `yaml:"train_size" default:"1000" validate:"gte=1"`
		TestSize  int `yaml:"test_size" default:"1000" validate:"gte=1"`
	} `yaml:"split"`
	Model struct {
		Target string `yaml:"target" default:"spy" validate:"required,oneof=spy"`
	} `yaml:"model"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"indices"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`
}

// Files maps each index to its file name under Data.Dir (or its symbol for
// the clickhouse source).
type Files struct {
	SPY    string `yaml:"spy" default:"SPY.csv" validate:"required"`
	SP500  string `yaml:"sp500" default:"SP500.csv" validate:"required"`
	Nasdaq string `yaml:"nasdaq" default:"nasdaq_composite.csv" validate:"required"`
	DJI    string `yaml:"dji" default:"DJI.csv" validate:"required"`
	CAC40  string `yaml:"cac40" default:"CAC40.csv" validate:"required"`
	DAXI   string `yaml:"daxi" default:"DAXI.csv" validate:"required"`
	AORD   string `yaml:"aord" default:"ALLOrdinary.csv" validate:"required"`
	HSI    string `yaml:"hsi" default:"HSI.csv" validate:"required"`
	Nikkei string `yaml:"nikkei" default:"Nikkei225.csv" validate:"required"`
}

// ByIndex returns the file (or symbol) configured for each index name.
func (f Files) ByIndex() map[string]string {
	return map[string]string{
		"spy":    f.SPY,
		"sp500":  f.SP500,
		"nasdaq": f.Nasdaq,
		"dji":    f.DJI,
		"cac40":  f.CAC40,
		"daxi":   f.DAXI,
		"aord":   f.AORD,
		"hsi":    f.HSI,
		"nikkei": f.Nikkei,
	}
}

// Location resolves where the named index is read from. CSV files are joined
// with Data.Dir; database symbols are returned as is.
func (c *Config) Location(index string) string {
	loc := c.Data.Files.ByIndex()[index]
	if c.Source.Type == "csv" && loc != "" && !filepath.IsAbs(loc) {
		return filepath.Join(c.Data.Dir, loc)
	}
	return loc
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file. An empty path yields the
// built-in defaults.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("SPYREG_DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("SPYREG_ALIGNMENT"); v != "" {
		c.Data.Alignment = v
	}
	if v := os.Getenv("SPYREG_SOURCE"); v != "" {
		c.Source.Type = v
	}
	if v := os.Getenv("SPYREG_OUTPUT"); v != "" {
		c.Output.FeatureTable = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return describe(err)
	}
	if c.Output.Plots && (c.Output.ScatterPlot == "" || c.Output.ScatterMatrix == "") {
		return fmt.Errorf("output.scatter_plot and output.scatter_matrix are required when plots are enabled")
	}
	if c.Source.Type == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for the clickhouse source")
	}
	return nil
}
