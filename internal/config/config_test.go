package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Config{
		URL:              "https://pm.example.com",
		Username:         "fred",
		Password:         "hunter2",
		RememberPassword: true,
		Project:          4,
		StripRichText:    true,
		TestRunDate:      "2024-03-15",
	}
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveDropsPasswordUnlessRemembered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Config{
		URL:      "https://pm.example.com",
		Username: "fred",
		Password: "hunter2",
	}
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, loaded.Password)
	assert.Equal(t, "fred", loaded.Username)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(Config{URL: "https://file.example.com", Username: "fred"}, path))

	t.Setenv("SHEETSYNC_URL", "https://env.example.com")
	t.Setenv("SHEETSYNC_PASSWORD", "from-env")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", loaded.URL)
	assert.Equal(t, "from-env", loaded.Password)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Empty(t, loaded.URL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{URL: "https://pm.example.com", Username: "fred"},
		},
		{
			name:    "missing url",
			cfg:     Config{Username: "fred"},
			wantErr: "server URL is required",
		},
		{
			name:    "missing username",
			cfg:     Config{URL: "https://pm.example.com"},
			wantErr: "username is required",
		},
		{
			name:    "bad run date",
			cfg:     Config{URL: "https://pm.example.com", Username: "fred", TestRunDate: "15/03/2024"},
			wantErr: "testRunDate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRunDate(t *testing.T) {
	cfg := Config{TestRunDate: "2024-03-15"}
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), cfg.RunDate())

	// Unset falls back to roughly now.
	assert.WithinDuration(t, time.Now(), Config{}.RunDate(), time.Minute)
}
