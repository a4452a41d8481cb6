package casscf

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"gohf/internal/blockmat"
	"gohf/internal/hamiltonian"
)

func fockOperator(e *Engine) *blockmat.Matrix {
	e.BuildTmatrix()
	e.BuildQmatOCC()
	e.BuildQmatACT()
	return blockmat.Sum(e.Tmatrix(), e.QmatOCC(), e.QmatACT())
}

func TestPseudocanonicalize(t *testing.T) {
	rnd := rand.New(rand.NewSource(31))
	idx := mustIndices(t, []int{3, 2}, []int{2, 1}, []int{3, 1})
	e, err := New(randomHamiltonian(t, idx, rnd), idx, randomUnitary(t, idx, rnd))
	require.NoError(t, err)
	rdm1, rdm2 := determinant("2", "a", "b")
	require.NoError(t, e.SetRDMs(rdm1, rdm2))

	before := fockOperator(e)
	assert.Greater(t, maxOffDiagonal(before, 0, 0, 3), 1e-3)
	activeBefore := mat.DenseCopyOf(e.Unitary().Block(0).Slice(3, 5, 0, 8))
	energyBefore, _ := activeEnergy(t, e)

	require.NoError(t, e.Pseudocanonicalize())
	require.NoError(t, e.Unitary().CheckOrthogonal(1e-12))

	after := fockOperator(e)
	for irrep := 0; irrep < idx.NIrreps(); irrep++ {
		nOcc, nAct, nVirt := idx.NOcc(irrep), idx.NAct(irrep), idx.NVirt(irrep)
		assert.Less(t, maxOffDiagonal(after, irrep, 0, nOcc), 1e-10, "occupied irrep %d", irrep)
		assert.Less(t, maxOffDiagonal(after, irrep, nOcc+nAct, nVirt), 1e-10, "virtual irrep %d", irrep)

		// orbital energies ascending
		for k := 1; k < nOcc; k++ {
			assert.LessOrEqual(t, after.At(irrep, k-1, k-1), after.At(irrep, k, k))
		}
		for k := nOcc + nAct + 1; k < nOcc+nAct+nVirt; k++ {
			assert.LessOrEqual(t, after.At(irrep, k-1, k-1), after.At(irrep, k, k))
		}
	}

	// active orbitals and the energy are untouched
	assert.True(t, mat.Equal(activeBefore, e.Unitary().Block(0).Slice(3, 5, 0, 8)))
	energyAfter, _ := activeEnergy(t, e)
	assert.InDelta(t, energyBefore, energyAfter, 1e-10)
}

func TestPseudocanonicalSingleOrbitalBlocks(t *testing.T) {
	rnd := rand.New(rand.NewSource(32))
	idx := mustIndices(t, []int{1, 0}, []int{1, 1}, []int{1, 0})
	u := randomUnitary(t, idx, rnd)
	want := u.Clone()
	e, err := New(randomHamiltonian(t, idx, rnd), idx, u)
	require.NoError(t, err)
	fockOperator(e)

	require.NoError(t, PseudocanonicalOccupied(e.Tmatrix(), e.QmatOCC(), e.QmatACT(), e.Unitary(), idx))
	require.NoError(t, PseudocanonicalVirtual(e.Tmatrix(), e.QmatOCC(), e.QmatACT(), e.Unitary(), idx))
	for irrep := 0; irrep < idx.NIrreps(); irrep++ {
		assert.True(t, mat.Equal(want.Block(irrep), e.Unitary().Block(irrep)))
	}
}

func TestPseudocanonicalHydrogenChain(t *testing.T) {
	ham, _, err := hamiltonian.HydrogenChain(4, 1.8, "sto-3g", nil)
	require.NoError(t, err)
	rnd := rand.New(rand.NewSource(33))
	idx := mustIndices(t, []int{2}, []int{0}, []int{2})

	canonical, err := New(ham, idx, blockmat.NewIdentity(idx))
	require.NoError(t, err)
	ref := fockOperator(canonical)

	// scramble the RHF occupied and virtual orbitals among themselves
	rot := mat.NewDense(4, 4, nil)
	rot.Slice(0, 2, 0, 2).(*mat.Dense).Copy(randomOrthogonal(2, rnd))
	rot.Slice(2, 4, 2, 4).(*mat.Dense).Copy(randomOrthogonal(2, rnd))
	u, err := blockmat.NewUnitary(idx, []mat.Matrix{rot})
	require.NoError(t, err)
	e, err := New(ham, idx, u)
	require.NoError(t, err)

	fockOperator(e)
	require.NoError(t, e.Pseudocanonicalize())
	fock := fockOperator(e)
	assert.Less(t, maxOffDiagonal(fock, 0, 0, 2), 1e-10)
	assert.Less(t, maxOffDiagonal(fock, 0, 2, 2), 1e-10)

	for _, jump := range []int{0, 2} {
		block := mat.NewSymDense(2, []float64{
			ref.At(0, jump, jump), ref.At(0, jump, jump+1),
			ref.At(0, jump, jump+1), ref.At(0, jump+1, jump+1),
		})
		var eig mat.EigenSym
		require.True(t, eig.Factorize(block, false))
		vals := eig.Values(nil)
		assert.InDelta(t, vals[0], fock.At(0, jump, jump), 1e-10)
		assert.InDelta(t, vals[1], fock.At(0, jump+1, jump+1), 1e-10)
	}
}
