package blockmat

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"gohf/internal/orbitals"
)

func testIndices(t *testing.T) *orbitals.Indices {
	t.Helper()
	idx, err := orbitals.New([]int{1, 0, 2}, []int{2, 0, 1}, []int{1, 0, 3})
	require.NoError(t, err)
	return idx
}

func randomSymmetric(idx *orbitals.Indices, rnd *rand.Rand) *Matrix {
	m := NewMatrix(idx)
	for irrep := 0; irrep < idx.NIrreps(); irrep++ {
		n := idx.NOrb(irrep)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				v := rnd.Float64() - 0.5
				m.Set(irrep, i, j, v)
				m.Set(irrep, j, i, v)
			}
		}
	}
	return m
}

func randomUnitary(t *testing.T, idx *orbitals.Indices, rnd *rand.Rand) *Unitary {
	t.Helper()
	blocks := make([]mat.Matrix, idx.NIrreps())
	for irrep := range blocks {
		n := idx.NOrb(irrep)
		if n == 0 {
			continue
		}
		a := mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				a.Set(i, j, rnd.NormFloat64())
			}
		}
		var qr mat.QR
		qr.Factorize(a)
		var q mat.Dense
		qr.QTo(&q)
		blocks[irrep] = &q
	}
	u, err := NewUnitary(idx, blocks)
	require.NoError(t, err)
	require.NoError(t, u.CheckOrthogonal(1e-12))
	return u
}

func TestRotateOldToNewIdentity(t *testing.T) {
	idx := testIndices(t)
	rnd := rand.New(rand.NewSource(7))
	m := randomSymmetric(idx, rnd)
	want := m.Clone()

	NewIdentity(idx).RotateOldToNew(m, nil)
	assert.InDelta(t, 0, m.MaxAbsDiff(want), 1e-14)
}

func TestRotateOldToNewRoundTrip(t *testing.T) {
	idx := testIndices(t)
	rnd := rand.New(rand.NewSource(11))
	m := randomSymmetric(idx, rnd)
	want := m.Clone()
	u := randomUnitary(t, idx, rnd)

	work := NewMatrix(idx)
	u.RotateOldToNew(m, work)
	assert.Greater(t, m.MaxAbsDiff(want), 1e-3, "rotation should change the matrix")
	u.T().RotateOldToNew(m, work)
	assert.InDelta(t, 0, m.MaxAbsDiff(want), 1e-12)
}

func TestNewUnitaryValidates(t *testing.T) {
	idx := testIndices(t)
	_, err := NewUnitary(idx, []mat.Matrix{nil, nil})
	require.Error(t, err)

	_, err = NewUnitary(idx, []mat.Matrix{mat.NewDense(2, 2, nil), nil, mat.NewDense(6, 6, nil)})
	require.Error(t, err)

	bad := NewIdentity(idx)
	bad.Block(2).Set(0, 1, 0.3)
	err = bad.CheckOrthogonal(1e-10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotOrthogonal))
	assert.Contains(t, err.Error(), "irrep 2")
}

func TestMatrixHelpers(t *testing.T) {
	idx := testIndices(t)
	m := NewMatrix(idx)
	assert.Nil(t, m.Block(1))
	m.Set(0, 1, 2, 3)
	m.Set(2, 0, 0, -4)

	s := Sum(m, m)
	assert.Equal(t, 6.0, s.At(0, 1, 2))
	assert.Equal(t, -8.0, s.At(2, 0, 0))
	assert.InDelta(t, 4.0, s.MaxAbsDiff(m), 1e-15)

	// 16 + 36 stored elements in total, two non-zero
	assert.InDelta(t, 0.6933752452815364, m.RMS(), 1e-12)

	m.Clear()
	assert.Equal(t, 0.0, m.RMS())

	assert.PanicsWithValue(t, "blockmat: element (4,0) out of range for irrep 0 with 4 orbitals", func() { m.At(0, 4, 0) })
	assert.PanicsWithValue(t, "blockmat: irrep 3 out of range [0,3)", func() { m.Block(3) })
}
