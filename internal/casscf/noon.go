// noon.go --  This file is part of goHF project.
// Mirzaeva Irina, 2023
//
//	goHF is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package casscf

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"gohf/internal/orbitals"
)

// NaturalOrbitals diagonalises every irrep block of the active 1-RDM.
// It returns the natural occupation numbers in active ordering and the
// block-diagonal eigenvector matrix (columns are natural orbitals), each
// block sorted by descending occupation.
func NaturalOrbitals(idx *orbitals.Indices, rdm1 *OneRDM) ([]float64, *mat.Dense, error) {
	nAct := idx.NActTotal()
	if rdm1.N != nAct {
		return nil, nil, errors.Wrapf(ErrDimensionMismatch, "1-RDM over %d orbitals, %d active", rdm1.N, nAct)
	}
	if nAct == 0 {
		return nil, nil, nil
	}
	noon := make([]float64, nAct)
	vecs := mat.NewDense(nAct, nAct, nil)
	full := rdm1.Dense()
	for irrep := 0; irrep < idx.NIrreps(); irrep++ {
		n := idx.NAct(irrep)
		if n == 0 {
			continue
		}
		jump := idx.ActStart(irrep)
		block := mat.NewSymDense(n, nil)
		for row := 0; row < n; row++ {
			for col := row; col < n; col++ {
				block.SetSym(row, col, full.At(jump+row, jump+col))
			}
		}
		var eigsym mat.EigenSym
		if ok := eigsym.Factorize(block, true); !ok {
			return nil, nil, errors.Wrapf(ErrEigenFailed, "1-RDM of irrep %d", irrep)
		}
		var ev mat.Dense
		eigsym.VectorsTo(&ev)
		vals := eigsym.Values(nil)
		// ascending from EigenSym, reversed here
		for col := 0; col < n; col++ {
			src := n - 1 - col
			noon[jump+col] = vals[src]
			for row := 0; row < n; row++ {
				vecs.Set(jump+row, jump+col, ev.At(row, src))
			}
		}
	}
	return noon, vecs, nil
}

// ActiveRotation assembles the block-diagonal nActTotal² matrix whose irrep
// blocks are the transposes of the given active-space rotations, the form
// Rotate2RDMand1RDM expects for localized orbitals.
func ActiveRotation(idx *orbitals.Indices, blocks []mat.Matrix) (*mat.Dense, error) {
	nAct := idx.NActTotal()
	if len(blocks) != idx.NIrreps() {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d blocks for %d irreps", len(blocks), idx.NIrreps())
	}
	if nAct == 0 {
		return nil, nil
	}
	res := mat.NewDense(nAct, nAct, nil)
	for irrep, b := range blocks {
		n := idx.NAct(irrep)
		if n == 0 {
			continue
		}
		if b == nil {
			return nil, errors.Wrapf(ErrDimensionMismatch, "missing active block of irrep %d", irrep)
		}
		if r, c := b.Dims(); r != n || c != n {
			return nil, errors.Wrapf(ErrDimensionMismatch, "active block of irrep %d is %dx%d, want %dx%d", irrep, r, c, n, n)
		}
		jump := idx.ActStart(irrep)
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				res.Set(jump+row, jump+col, b.At(col, row))
			}
		}
	}
	return res, nil
}
