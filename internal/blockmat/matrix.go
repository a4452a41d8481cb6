// matrix.go --  This file is part of goHF project.
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

// Package blockmat provides irrep-block-diagonal matrices: one dense square
// block per irrep, addressed by irrep plus local row and column.
package blockmat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"gohf/internal/orbitals"
)

// Matrix is a block-diagonal matrix with a NOrb(irrep) square block per irrep.
// Irreps without orbitals have a nil block.
type Matrix struct {
	idx    *orbitals.Indices
	blocks []*mat.Dense
}

func NewMatrix(idx *orbitals.Indices) *Matrix {
	m := &Matrix{idx: idx, blocks: make([]*mat.Dense, idx.NIrreps())}
	for irrep := range m.blocks {
		if n := idx.NOrb(irrep); n > 0 {
			m.blocks[irrep] = mat.NewDense(n, n, nil)
		}
	}
	return m
}

func (m *Matrix) Indices() *orbitals.Indices { return m.idx }

// Block returns the dense block of irrep. Writes through it modify m.
func (m *Matrix) Block(irrep int) *mat.Dense {
	if irrep < 0 || irrep >= len(m.blocks) {
		panic(fmt.Sprintf("blockmat: irrep %d out of range [0,%d)", irrep, len(m.blocks)))
	}
	return m.blocks[irrep]
}

func (m *Matrix) At(irrep, row, col int) float64 {
	m.check(irrep, row, col)
	return m.blocks[irrep].At(row, col)
}

func (m *Matrix) Set(irrep, row, col int, v float64) {
	m.check(irrep, row, col)
	m.blocks[irrep].Set(row, col, v)
}

// Clear zeroes every block.
func (m *Matrix) Clear() {
	for _, b := range m.blocks {
		if b != nil {
			b.Zero()
		}
	}
}

// CopyFrom overwrites m with src, which must share the same partition.
func (m *Matrix) CopyFrom(src *Matrix) {
	for irrep, b := range m.blocks {
		if b != nil {
			b.Copy(src.blocks[irrep])
		}
	}
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	res := NewMatrix(m.idx)
	res.CopyFrom(m)
	return res
}

// AddScaled performs m += alpha*a block by block.
func (m *Matrix) AddScaled(alpha float64, a *Matrix) {
	for irrep, b := range m.blocks {
		if b != nil {
			var tmp mat.Dense
			tmp.Scale(alpha, a.blocks[irrep])
			b.Add(b, &tmp)
		}
	}
}

// Sum returns the block-wise sum of the given matrices.
func Sum(terms ...*Matrix) *Matrix {
	res := NewMatrix(terms[0].idx)
	for _, t := range terms {
		res.AddScaled(1, t)
	}
	return res
}

// MaxAbsDiff is the largest element-wise difference between m and other.
func (m *Matrix) MaxAbsDiff(other *Matrix) float64 {
	res := 0.0
	for irrep, b := range m.blocks {
		if b == nil {
			continue
		}
		r, c := b.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				res = math.Max(res, math.Abs(b.At(i, j)-other.blocks[irrep].At(i, j)))
			}
		}
	}
	return res
}

// RMS is the root mean square of all stored elements.
func (m *Matrix) RMS() float64 {
	var data []float64
	for _, b := range m.blocks {
		if b == nil {
			continue
		}
		sq := mat.DenseCopyOf(b)
		sq.MulElem(sq, sq)
		data = append(data, sq.RawMatrix().Data...)
	}
	if len(data) == 0 {
		return 0
	}
	return math.Sqrt(stat.Mean(data, nil))
}

func (m *Matrix) check(irrep, row, col int) {
	n := m.idx.NOrb(irrep)
	if row < 0 || row >= n || col < 0 || col >= n {
		panic(fmt.Sprintf("blockmat: element (%d,%d) out of range for irrep %d with %d orbitals", row, col, irrep, n))
	}
}
