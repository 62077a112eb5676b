package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/ceplookup/pkg/cli/config"
	"github.com/m-mizutani/gt"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ceplookup.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func noneSet(string) bool { return false }

func TestFile_Apply(t *testing.T) {
	path := writeConfig(t, `
[viacep]
base_url = "http://localhost:9999/ws"
timeout = "2s"

[batch]
delay = "500ms"
max_codes = 50
`)

	viaCEP := config.ViaCEP{BaseURL: "https://viacep.com.br/ws", Timeout: 5 * time.Second}
	batch := config.Batch{Delay: 300 * time.Millisecond, MaxCodes: 1000}

	file := config.File{Path: path}
	gt.NoError(t, file.Apply(noneSet, &viaCEP, &batch))

	gt.Equal(t, viaCEP.BaseURL, "http://localhost:9999/ws")
	gt.Equal(t, viaCEP.Timeout, 2*time.Second)
	gt.Equal(t, batch.Delay, 500*time.Millisecond)
	gt.Equal(t, batch.MaxCodes, 50)
}

func TestFile_Apply_FlagsTakePrecedence(t *testing.T) {
	path := writeConfig(t, `
[viacep]
timeout = "2s"

[batch]
max_codes = 50
`)

	viaCEP := config.ViaCEP{BaseURL: "https://viacep.com.br/ws", Timeout: 7 * time.Second}
	batch := config.Batch{Delay: 300 * time.Millisecond, MaxCodes: 10}

	isSet := func(name string) bool {
		return name == "viacep-timeout" || name == "batch-max-codes"
	}

	file := config.File{Path: path}
	gt.NoError(t, file.Apply(isSet, &viaCEP, &batch))

	gt.Equal(t, viaCEP.Timeout, 7*time.Second)
	gt.Equal(t, batch.MaxCodes, 10)
	gt.Equal(t, viaCEP.BaseURL, "https://viacep.com.br/ws")
	gt.Equal(t, batch.Delay, 300*time.Millisecond)
}

func TestFile_Apply_NoPath(t *testing.T) {
	batch := config.Batch{MaxCodes: 10}
	file := config.File{}
	gt.NoError(t, file.Apply(noneSet, nil, &batch))
	gt.Equal(t, batch.MaxCodes, 10)
}

func TestFile_Apply_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "Malformed TOML",
			content: `[batch`,
		},
		{
			name:    "Invalid duration",
			content: "[batch]\ndelay = \"soon\"\n",
		},
		{
			name:    "Negative duration",
			content: "[viacep]\ntimeout = \"-1s\"\n",
		},
		{
			name:    "Zero timeout",
			content: "[viacep]\ntimeout = \"0s\"\n",
		},
		{
			name:    "Negative max codes",
			content: "[batch]\nmax_codes = -1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := config.File{Path: writeConfig(t, tt.content)}
			err := file.Apply(noneSet, &config.ViaCEP{}, &config.Batch{})
			gt.Error(t, err)
		})
	}

	t.Run("Missing file", func(t *testing.T) {
		file := config.File{Path: filepath.Join(t.TempDir(), "missing.toml")}
		gt.Error(t, file.Apply(noneSet, &config.ViaCEP{}, &config.Batch{}))
	})
}
