package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
occupied: [1, 0]
active: [2, 1]
virtual: [1, 1]
active_electrons: 3
workers: 4
model:
  chain_length: 5
  distance: 1.8
  basis: sto-3g
states:
  - weight: 1
    occupations: "2a0"
  - weight: 3
    occupations: "20a"
`)
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid, "odd chain")

	path = writeConfig(t, `
occupied: [1, 0]
active: [2, 1]
virtual: [1, 1]
active_electrons: 3
workers: 4
integrals: fcidump.yaml
states:
  - weight: 1
    occupations: "2a0"
  - weight: 3
    occupations: "20b"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.NumActive())
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "fcidump.yaml", cfg.Integrals)
	assert.Nil(t, cfg.Model)
	if diff := cmp.Diff([]float64{0.25, 0.75}, cfg.Weights(), cmpopts.EquateApprox(0, 1e-15)); diff != "" {
		t.Errorf("weights mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
occupied: [0]
active: [2]
virtual: [2]
active_electrons: 2
integral: typo.yaml
states: [{weight: 1, occupations: "20"}]
`)
	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	path := filepath.Join(t.TempDir(), "default.yaml")
	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"length mismatch", func(c *Config) { c.Virtual = []int{2, 0} }},
		{"no irreps", func(c *Config) { c.Occupied, c.Active, c.Virtual = nil, nil, nil }},
		{"negative count", func(c *Config) { c.Virtual = []int{-1} }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"one active electron", func(c *Config) { c.ActiveElectrons = 1; c.States[0].Occupations = "a0" }},
		{"two sources", func(c *Config) { c.Integrals = "ham.yaml" }},
		{"no source", func(c *Config) { c.Model = nil }},
		{"bad distance", func(c *Config) { c.Model.Distance = 0 }},
		{"no basis", func(c *Config) { c.Model.Basis = "" }},
		{"electron count vs chain", func(c *Config) { c.Occupied = []int{1}; c.Virtual = []int{1} }},
		{"no states", func(c *Config) { c.States = nil }},
		{"zero weight", func(c *Config) { c.States[0].Weight = 0 }},
		{"short occupations", func(c *Config) { c.States[0].Occupations = "2" }},
		{"bad occupation", func(c *Config) { c.States[0].Occupations = "2x" }},
		{"wrong electron count", func(c *Config) { c.States[0].Occupations = "a0" }},
		{"empty active space", func(c *Config) { c.Active = []int{0}; c.States[0].Occupations = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestStateSpins(t *testing.T) {
	s := State{Weight: 1, Occupations: "2ab0"}
	alpha, beta := s.Spins()
	assert.Equal(t, []bool{true, true, false, false}, alpha)
	assert.Equal(t, []bool{true, false, true, false}, beta)
	assert.Equal(t, 4, s.Electrons())
}
