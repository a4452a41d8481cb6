// pseudocanonical.go --  This file is part of goHF project.
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

	"gohf/internal/blockmat"
	"gohf/internal/orbitals"
)

// PseudocanonicalOccupied diagonalises the occupied-occupied block of
// T + Qocc + Qact in every irrep and rotates the occupied rows of u to match.
func PseudocanonicalOccupied(T, Qocc, Qact *blockmat.Matrix, u *blockmat.Unitary, idx *orbitals.Indices) error {
	for irrep := 0; irrep < idx.NIrreps(); irrep++ {
		if err := pseudocanonicalBlock(T, Qocc, Qact, u, irrep, 0, idx.NOcc(irrep)); err != nil {
			return errors.Wrapf(err, "occupied block of irrep %d", irrep)
		}
	}
	return nil
}

// PseudocanonicalVirtual does the same for the virtual-virtual block.
func PseudocanonicalVirtual(T, Qocc, Qact *blockmat.Matrix, u *blockmat.Unitary, idx *orbitals.Indices) error {
	for irrep := 0; irrep < idx.NIrreps(); irrep++ {
		nVirt := idx.NVirt(irrep)
		if err := pseudocanonicalBlock(T, Qocc, Qact, u, irrep, idx.NOrb(irrep)-nVirt, nVirt); err != nil {
			return errors.Wrapf(err, "virtual block of irrep %d", irrep)
		}
	}
	return nil
}

func pseudocanonicalBlock(T, Qocc, Qact *blockmat.Matrix, u *blockmat.Unitary, irrep, jump, size int) error {
	if size <= 1 {
		return nil
	}
	fock := mat.NewSymDense(size, nil)
	for row := 0; row < size; row++ {
		for col := row; col < size; col++ {
			fock.SetSym(row, col, T.At(irrep, jump+row, jump+col)+
				Qocc.At(irrep, jump+row, jump+col)+
				Qact.At(irrep, jump+row, jump+col))
		}
	}

	var eigsym mat.EigenSym
	if ok := eigsym.Factorize(fock, true); !ok {
		return ErrEigenFailed
	}
	var vecs mat.Dense
	eigsym.VectorsTo(&vecs)

	umat := u.Block(irrep)
	_, nOrb := umat.Dims()
	rows := umat.Slice(jump, jump+size, 0, nOrb).(*mat.Dense)
	old := mat.DenseCopyOf(rows)
	rows.Mul(vecs.T(), old)
	return nil
}

// Pseudocanonicalize runs both phases on the engine's current T and Q
// matrices, which must have been built for the current unitary. The matrices
// themselves are not rebuilt.
func (e *Engine) Pseudocanonicalize() error {
	if err := PseudocanonicalOccupied(e.tmat, e.qmatOCC, e.qmatACT, e.unitary, e.idx); err != nil {
		return err
	}
	return PseudocanonicalVirtual(e.tmat, e.qmatOCC, e.qmatACT, e.unitary, e.idx)
}
