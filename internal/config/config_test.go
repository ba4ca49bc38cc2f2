package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults when no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, DefaultStartDate, cfg.Simulation.StartDate)
				assert.Equal(t, DefaultEndDate, cfg.Simulation.EndDate)
				assert.Equal(t, int64(DefaultSeed), cfg.Simulation.Seed)
				assert.Equal(t, DefaultTrendKeywords, cfg.Trends.Keywords)
				assert.Len(t, cfg.Trends.Regions, 5)
				assert.Equal(t, "GB", cfg.Trends.Regions["England"])
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 9090
simulation:
  start_date: "2024-01-01"
  end_date: "2024-03-31"
  seed: 7
export:
  sqlite: false
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "2024-01-01", cfg.Simulation.StartDate)
				assert.Equal(t, int64(7), cfg.Simulation.Seed)
				assert.False(t, cfg.Export.SQLite)
				assert.True(t, cfg.Export.Workbook)
				// untouched sections keep their defaults
				assert.Equal(t, "info", cfg.Logging.Level)
			},
		},
		{
			name: "env takes precedence over file",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"EVAGO_SERVER_PORT":     "7070",
				"EVAGO_LOGGING_LEVEL":   "debug",
				"EVAGO_TRENDS_KEYWORDS": "eventverhuur,event fencing rental",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, []string{"eventverhuur", "event fencing rental"}, cfg.Trends.Keywords)
			},
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"EVAGO_LOGGING_LEVEL": "verbose"},
			wantErr: true,
		},
		{
			name:    "end before start",
			file:    "simulation:\n  start_date: \"2024-02-01\"\n  end_date: \"2024-01-01\"\n",
			wantErr: true,
		},
		{
			name:    "malformed date",
			file:    "simulation:\n  start_date: \"01/02/2024\"\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "server: [port",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	start, end, err := cfg.Simulation.DateRange()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestValidate_KPIMonth(t *testing.T) {
	cfg := Default()
	cfg.Export.KPIMonth = "2024-06"
	assert.NoError(t, cfg.Validate())

	cfg.Export.KPIMonth = "June 2024"
	assert.Error(t, cfg.Validate())
}

func TestValidate_Profile(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultProfile, cfg.Simulation.Profile)

	cfg.Simulation.Profile = "partner"
	cfg.Simulation.EventDate = "2024-03-15"
	require.NoError(t, cfg.Validate())
	event, err := cfg.Simulation.Event()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), event)

	cfg.Simulation.EventDate = ""
	event, err = cfg.Simulation.Event()
	require.NoError(t, err)
	assert.True(t, event.IsZero())

	cfg.Simulation.Profile = "regional"
	assert.Error(t, cfg.Validate())
}

func TestValidate_WebSocketTimings(t *testing.T) {
	cfg := Default()
	cfg.WebSocket.PongWait = cfg.WebSocket.PingPeriod
	assert.Error(t, cfg.Validate())
}
