package hamiltonian

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetVmatPermutations(t *testing.T) {
	h, err := New([]int{0, 0, 0, 0})
	require.NoError(t, err)
	h.SetVmat(0, 1, 2, 3, 0.25)

	// (02|13) and every real-orbital partner
	for _, p := range [][4]int{
		{0, 1, 2, 3}, {1, 0, 3, 2}, {2, 3, 0, 1}, {3, 2, 1, 0},
		{2, 1, 0, 3}, {3, 0, 1, 2}, {0, 3, 2, 1}, {1, 2, 3, 0},
	} {
		assert.Equal(t, 0.25, h.Vmat(p[0], p[1], p[2], p[3]), "V%v", p)
	}
	assert.Equal(t, 0.0, h.Vmat(0, 2, 1, 3))
}

func TestLoadYAML(t *testing.T) {
	const doc = `
econst: 0.5
irreps: [0, 1, 1]
one_body:
  - [0, 0, -1.5]
  - [1, 2, 0.1]
two_body:
  - [0, 0, 1, 1, 0.4]
  - [1, 2, 1, 2, 0.05]
`
	h, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 3, h.L())
	assert.Equal(t, 0.5, h.Econst())
	assert.Equal(t, 1, h.OrbitalIrrep(2))
	assert.Equal(t, -1.5, h.Tmat(0, 0))
	assert.Equal(t, 0.1, h.Tmat(2, 1))
	// (00|11) = V(0,1,0,1)
	assert.Equal(t, 0.4, h.Vmat(0, 1, 0, 1))
	assert.Equal(t, 0.4, h.Vmat(1, 0, 1, 0))
	// (12|12) = V(1,1,2,2)
	assert.Equal(t, 0.05, h.Vmat(1, 1, 2, 2))
	assert.Equal(t, 0.05, h.Vmat(2, 2, 1, 1))
}

func TestLoadYAMLRejects(t *testing.T) {
	for name, tc := range map[string]struct {
		doc  string
		want error
	}{
		"symmetry":  {"irreps: [0, 1]\none_body:\n  - [0, 1, 0.3]\n", ErrBadSymmetry},
		"index":     {"irreps: [0]\none_body:\n  - [0, 1, 0.3]\n", ErrBadIndex},
		"fraction":  {"irreps: [0, 0]\ntwo_body:\n  - [0, 0.5, 1, 1, 0.3]\n", ErrBadIndex},
		"no orbits": {"econst: 1\n", ErrBadIndex},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(tc.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}
