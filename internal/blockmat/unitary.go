// unitary.go --  This file is part of goHF project.
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
package blockmat

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"gohf/internal/orbitals"
)

// ErrNotOrthogonal is returned when a block fails U·Uᵀ = 1 within tolerance.
var ErrNotOrthogonal = errors.New("blockmat: block is not orthogonal")

// Unitary holds one orthogonal block per irrep. Row p of a block expands the
// current orbital p in the original orbitals of that irrep.
type Unitary struct {
	idx    *orbitals.Indices
	blocks []*mat.Dense
}

// NewIdentity returns the unitary of the unrotated orbitals.
func NewIdentity(idx *orbitals.Indices) *Unitary {
	u := &Unitary{idx: idx, blocks: make([]*mat.Dense, idx.NIrreps())}
	for irrep := range u.blocks {
		n := idx.NOrb(irrep)
		if n == 0 {
			continue
		}
		u.blocks[irrep] = mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			u.blocks[irrep].Set(i, i, 1)
		}
	}
	return u
}

// NewUnitary copies the given per-irrep blocks. Blocks of empty irreps may be nil.
func NewUnitary(idx *orbitals.Indices, blocks []mat.Matrix) (*Unitary, error) {
	if len(blocks) != idx.NIrreps() {
		return nil, errors.Errorf("blockmat: %d blocks for %d irreps", len(blocks), idx.NIrreps())
	}
	u := &Unitary{idx: idx, blocks: make([]*mat.Dense, idx.NIrreps())}
	for irrep, b := range blocks {
		n := idx.NOrb(irrep)
		if n == 0 {
			continue
		}
		if b == nil {
			return nil, errors.Errorf("blockmat: missing block for irrep %d", irrep)
		}
		if r, c := b.Dims(); r != n || c != n {
			return nil, errors.Errorf("blockmat: block of irrep %d is %dx%d, want %dx%d", irrep, r, c, n, n)
		}
		u.blocks[irrep] = mat.DenseCopyOf(b)
	}
	return u, nil
}

func (u *Unitary) Indices() *orbitals.Indices { return u.idx }

// Block returns the block of irrep; writes through it modify u.
func (u *Unitary) Block(irrep int) *mat.Dense {
	if irrep < 0 || irrep >= len(u.blocks) {
		panic(fmt.Sprintf("blockmat: irrep %d out of range [0,%d)", irrep, len(u.blocks)))
	}
	return u.blocks[irrep]
}

// T returns the inverse rotation.
func (u *Unitary) T() *Unitary {
	res := &Unitary{idx: u.idx, blocks: make([]*mat.Dense, len(u.blocks))}
	for irrep, b := range u.blocks {
		if b != nil {
			res.blocks[irrep] = mat.DenseCopyOf(b.T())
		}
	}
	return res
}

func (u *Unitary) Clone() *Unitary {
	res := &Unitary{idx: u.idx, blocks: make([]*mat.Dense, len(u.blocks))}
	for irrep, b := range u.blocks {
		if b != nil {
			res.blocks[irrep] = mat.DenseCopyOf(b)
		}
	}
	return res
}

// CheckOrthogonal reports the first block whose U·Uᵀ deviates from the
// identity by more than tol in any element.
func (u *Unitary) CheckOrthogonal(tol float64) error {
	for irrep, b := range u.blocks {
		if b == nil {
			continue
		}
		var uut mat.Dense
		uut.Mul(b, b.T())
		n, _ := uut.Dims()
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				want := 0.0
				if i == j {
					want = 1
				}
				if d := math.Abs(uut.At(i, j) - want); d > tol {
					return errors.Wrapf(ErrNotOrthogonal, "irrep %d element (%d,%d) off by %g", irrep, i, j, d)
				}
			}
		}
	}
	return nil
}

// RotateOldToNew replaces every block of m by U·M·Uᵀ, expressing an operator
// given in the original orbitals in the current ones. work receives the
// intermediate product and may be nil.
func (u *Unitary) RotateOldToNew(m, work *Matrix) {
	if work == nil {
		work = NewMatrix(u.idx)
	}
	for irrep, umat := range u.blocks {
		if umat == nil {
			continue
		}
		block := m.blocks[irrep]
		tmp := work.blocks[irrep]
		tmp.Mul(umat, block)
		block.Mul(tmp, umat.T())
	}
}
