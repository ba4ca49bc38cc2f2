package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Simulation SimulationConfig `yaml:"simulation" envconfig:"SIMULATION"`
	Export     ExportConfig     `yaml:"export" envconfig:"EXPORT"`
	Trends     TrendsConfig     `yaml:"trends" envconfig:"TRENDS"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
	WebSocket  WebSocketConfig  `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port             int             `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout      time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout     time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout      time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout  time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	OperationTimeout time.Duration   `yaml:"operation_timeout" envconfig:"OPERATION_TIMEOUT" validate:"gt=0"`
	AllowedOrigins   []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	RateLimit        RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration. Relative entries
// are resolved against RootDir.
type PathsConfig struct {
	RootDir    string `yaml:"root_dir" envconfig:"ROOT_DIR"`
	RawDir     string `yaml:"raw_dir" envconfig:"RAW_DIR" validate:"required"`
	PowerBIDir string `yaml:"powerbi_dir" envconfig:"POWERBI_DIR" validate:"required"`
	TrendsDir  string `yaml:"trends_dir" envconfig:"TRENDS_DIR" validate:"required"`
	ImagesDir  string `yaml:"images_dir" envconfig:"IMAGES_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// SimulationConfig controls the synthetic data generators
type SimulationConfig struct {
	StartDate string `yaml:"start_date" envconfig:"START_DATE" validate:"required,datetime=2006-01-02"`
	EndDate   string `yaml:"end_date" envconfig:"END_DATE" validate:"required,datetime=2006-01-02"`
	Seed      int64  `yaml:"seed" envconfig:"SEED"`
	// Profile picks the market catalog: standard, global or partner
	Profile string `yaml:"profile" envconfig:"PROFILE" validate:"omitempty,oneof=standard global partner"`
	// EventDate is the acquisition or partner integration date of the
	// global and partner profiles
	EventDate string `yaml:"event_date" envconfig:"EVENT_DATE" validate:"omitempty,datetime=2006-01-02"`
}

// ExportConfig selects the optional Power BI artifacts written next to the chart CSVs
type ExportConfig struct {
	Workbook bool `yaml:"workbook" envconfig:"WORKBOOK"`
	SQLite   bool `yaml:"sqlite" envconfig:"SQLITE"`
	Images   bool `yaml:"images" envconfig:"IMAGES"`
	// KPIMonth (YYYY-MM) is the first month the KPI dashboard counts; rows
	// dated after it are included too. Empty means the latest month in the data.
	KPIMonth string `yaml:"kpi_month" envconfig:"KPI_MONTH" validate:"omitempty,datetime=2006-01"`
}

// TrendsConfig contains the search trends collector settings
type TrendsConfig struct {
	BaseURL   string            `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	Language  string            `yaml:"language" envconfig:"LANGUAGE" validate:"required"`
	TZOffset  int               `yaml:"tz_offset" envconfig:"TZ_OFFSET"`
	Timeframe string            `yaml:"timeframe" envconfig:"TIMEFRAME" validate:"required"`
	Keywords  []string          `yaml:"keywords" envconfig:"KEYWORDS" validate:"min=1,dive,required"`
	Regions   map[string]string `yaml:"regions" envconfig:"REGIONS" validate:"min=1"`
	RPS       float64           `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Timeout   time.Duration     `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
}

// TelemetryConfig toggles tracing and metrics
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TracingEnabled bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD" validate:"gt=0"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" validate:"gtfield=PingPeriod"`
}

// Load builds the configuration from defaults, an optional YAML file and
// EVAGO_* environment variables, in increasing order of precedence.
// An empty filePath searches the usual locations.
func Load(filePath string) (*Config, error) {
	cfg := Default()

	if filePath == "" {
		filePath = getConfigFilePath()
	}
	if filePath != "" {
		if err := loadFromFile(filePath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and the cross-field date ordering
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	start, end, err := c.Simulation.DateRange()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("simulation end date %s is before start date %s", c.Simulation.EndDate, c.Simulation.StartDate)
	}
	return nil
}

// DateRange parses the configured simulation window
func (s SimulationConfig) DateRange() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, s.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(DateLayout, s.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
	}
	return start, end, nil
}

// Event parses the event date; zero when none is configured
func (s SimulationConfig) Event() (time.Time, error) {
	if s.EventDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s.EventDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event date: %w", err)
	}
	return t, nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             8080,
			ReadTimeout:      15 * time.Second,
			WriteTimeout:     15 * time.Second,
			IdleTimeout:      60 * time.Second,
			ShutdownTimeout:  30 * time.Second,
			OperationTimeout: DefaultOperationTimeout,
			AllowedOrigins:   []string{"http://localhost:8080"},
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/evagobi.log",
		},
		Paths: PathsConfig{
			RootDir:    ".",
			RawDir:     DefaultRawDir,
			PowerBIDir: DefaultPowerBIDir,
			TrendsDir:  DefaultTrendsDir,
			ImagesDir:  DefaultImagesDir,
			LogsDir:    DefaultLogsDir,
		},
		Simulation: SimulationConfig{
			StartDate: DefaultStartDate,
			EndDate:   DefaultEndDate,
			Seed:      DefaultSeed,
			Profile:   DefaultProfile,
			EventDate: DefaultEventDate,
		},
		Export: ExportConfig{
			Workbook: true,
			SQLite:   true,
			Images:   true,
		},
		Trends: TrendsConfig{
			BaseURL:   DefaultTrendsBaseURL,
			Language:  "en-US",
			TZOffset:  360,
			Timeframe: "today 12-m",
			Keywords:  append([]string(nil), DefaultTrendKeywords...),
			Regions:   defaultTrendRegions(),
			RPS:       1,
			Timeout:   DefaultHTTPTimeout,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			TracingEnabled: false,
			MetricsEnabled: true,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      WebSocketPingPeriod,
			PongWait:        WebSocketPongWait,
		},
	}
}
