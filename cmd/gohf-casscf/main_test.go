package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohf/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--out", filepath.Join(t.TempDir(), "run.out")))
	err := cmd.Execute()
	return out.String(), err
}

func energyLine(t *testing.T, out, label string) float64 {
	t.Helper()
	m := regexp.MustCompile(regexp.QuoteMeta(label) + `\s+(-?[0-9.]+) a\.u\.`).FindStringSubmatch(out)
	require.Len(t, m, 2, "no %q line in output", label)
	v, err := strconv.ParseFloat(m[1], 64)
	require.NoError(t, err)
	return v
}

func noonLine(t *testing.T, out string) []float64 {
	t.Helper()
	m := regexp.MustCompile(`NOON:((?: -?[0-9.]+)+)`).FindStringSubmatch(out)
	require.Len(t, m, 2, "no NOON line in output")
	var res []float64
	for _, f := range strings.Fields(m[1]) {
		v, err := strconv.ParseFloat(f, 64)
		require.NoError(t, err)
		res = append(res, v)
	}
	return res
}

func TestRunDefault(t *testing.T) {
	out, err := execute(t, "run", "--workers", "2")
	require.NoError(t, err)

	rhf := energyLine(t, out, "RHF total energy:")
	active := energyLine(t, out, "Active-space energy:")
	pseudo := energyLine(t, out, "Pseudocanonical energy:")
	assert.InDelta(t, rhf, active, 1e-8)
	assert.InDelta(t, active, pseudo, 1e-8)
	assert.InDeltaSlice(t, []float64{2, 0}, noonLine(t, out), 1e-6)
	assert.Contains(t, out, "Andersson K matrix, irrep 0:")
	assert.Contains(t, out, "goHF-CASSCF done.")
}

func TestRunStateAveraged(t *testing.T) {
	cfg := &config.Config{
		Occupied:        []int{1},
		Active:          []int{2},
		Virtual:         []int{1},
		ActiveElectrons: 2,
		Model:           &config.Model{ChainLength: 4, Distance: 1.8, Basis: "sto-3g"},
		States: []config.State{
			{Weight: 1, Occupations: "20"},
			{Weight: 1, Occupations: "ab"},
		},
	}
	path := filepath.Join(t.TempDir(), "h4.yaml")
	require.NoError(t, cfg.Save(path))

	out, err := execute(t, "run", "--config", path)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 0.5}, noonLine(t, out), 1e-6)
	assert.Contains(t, out, "NOCC    = [ 1 ]")
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	_, err := execute(t, "init", path)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestRunRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("occupied: [0]\nactive: [2]\nvirtual: [2]\nactive_electrons: 1\n"), 0o644))
	_, err := execute(t, "run", "--config", path)
	assert.ErrorIs(t, err, config.ErrInvalid)
}
