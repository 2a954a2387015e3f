package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	chdirTemp(t)

	s, err := LoadSettings(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultTaxYear, s.TaxYear)
	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, 10*time.Second, s.Server.ReadTimeout)
	assert.Equal(t, 1000, s.Simulation.Paths)
	assert.Equal(t, 10000, s.Server.MaxSimulationPaths)
}

func TestLoadSettings_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpkit.yaml")
	body := "tax_year: 2025\nlog:\n  level: debug\nserver:\n  addr: \":9090\"\n  read_timeout: 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("RPKIT_OUTPUT_FORMAT", "json")

	s, err := LoadSettings(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, 2025, s.TaxYear)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, ":9090", s.Server.Addr)
	assert.Equal(t, 2*time.Second, s.Server.ReadTimeout)
	assert.Equal(t, "json", s.Output.Format)

	rules, err := s.Rules(0)
	require.NoError(t, err)
	assert.Equal(t, 2025, rules.Metadata.TaxYear)
}

func TestLoadSettings_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: xml\n"), 0o600))

	_, err := LoadSettings(NewViper(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")

	require.NoError(t, os.WriteFile(path, []byte("server:\n  max_simulation_paths: 0\n"), 0o600))
	_, err = LoadSettings(NewViper(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.max_simulation_paths")

	_, err = LoadSettings(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// chdirTemp switches into a fresh temp dir for the test and restores the
// previous working directory on cleanup (equivalent of Go 1.24's t.Chdir).
func chdirTemp(t *testing.T) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
