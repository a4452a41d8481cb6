// hamiltonian.go --  This file is part of goHF project.
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

// Package hamiltonian stores one- and two-electron integrals over orthonormal
// orbitals that carry an irrep label of an abelian point group.
package hamiltonian

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var (
	ErrBadIndex    = errors.New("hamiltonian: orbital index out of range")
	ErrBadSymmetry = errors.New("hamiltonian: integral breaks point-group symmetry")
)

// Integrals is the read-only view of a Hamiltonian. Vmat uses physicist
// ordering: Vmat(i,j,k,l) = (ik|jl).
type Integrals interface {
	L() int
	Econst() float64
	Tmat(i, j int) float64
	Vmat(i, j, k, l int) float64
	OrbitalIrrep(i int) int
}

// DirectProd is the irrep product in the abelian groups with at most eight
// irreps, where irreps are numbered by their bit pattern.
func DirectProd(a, b int) int { return a ^ b }

type Hamiltonian struct {
	l      int
	irreps []int
	econst float64
	tmat   []float64
	vmat   []float64
}

// New allocates a zero Hamiltonian over len(orbIrreps) orbitals.
func New(orbIrreps []int) (*Hamiltonian, error) {
	l := len(orbIrreps)
	if l == 0 {
		return nil, errors.Wrap(ErrBadIndex, "no orbitals")
	}
	if i := slices.IndexFunc(orbIrreps, func(x int) bool { return x < 0 || x > 7 }); i >= 0 {
		return nil, errors.Errorf("hamiltonian: orbital %d has irrep %d outside [0,7]", i, orbIrreps[i])
	}
	return &Hamiltonian{
		l:      l,
		irreps: slices.Clone(orbIrreps),
		tmat:   make([]float64, l*l),
		vmat:   make([]float64, l*l*l*l),
	}, nil
}

func (h *Hamiltonian) L() int                 { return h.l }
func (h *Hamiltonian) Econst() float64        { return h.econst }
func (h *Hamiltonian) SetEconst(v float64)    { h.econst = v }
func (h *Hamiltonian) OrbitalIrrep(i int) int { return h.irreps[h.check(i)] }
func (h *Hamiltonian) OrbitalIrreps() []int   { return slices.Clone(h.irreps) }
func (h *Hamiltonian) Tmat(i, j int) float64  { return h.tmat[h.check(i)*h.l+h.check(j)] }
func (h *Hamiltonian) Vmat(i, j, k, l int) float64 {
	return h.vmat[h.vidx(i, j, k, l)]
}

// SetTmat sets T(i,j) and T(j,i).
func (h *Hamiltonian) SetTmat(i, j int, v float64) {
	h.tmat[h.check(i)*h.l+h.check(j)] = v
	h.tmat[j*h.l+i] = v
}

// SetVmat sets the physicist-ordered element V(i,j,k,l) = (ik|jl) and its
// seven partners under real orbital permutational symmetry.
func (h *Hamiltonian) SetVmat(i, j, k, l int, v float64) {
	for _, p := range [8][4]int{
		{i, j, k, l}, {j, i, l, k}, {k, l, i, j}, {l, k, j, i},
		{k, j, i, l}, {l, i, j, k}, {i, l, k, j}, {j, k, l, i},
	} {
		h.vmat[h.vidx(p[0], p[1], p[2], p[3])] = v
	}
}

// CheckSymmetry returns ErrBadSymmetry for the first non-zero integral whose
// orbital irreps do not multiply to the totally symmetric irrep.
func (h *Hamiltonian) CheckSymmetry(tol float64) error {
	for i := 0; i < h.l; i++ {
		for j := 0; j < h.l; j++ {
			if h.irreps[i] != h.irreps[j] && math.Abs(h.Tmat(i, j)) > tol {
				return errors.Wrapf(ErrBadSymmetry, "T(%d,%d) = %g", i, j, h.Tmat(i, j))
			}
			for k := 0; k < h.l; k++ {
				for l := 0; l < h.l; l++ {
					prod := DirectProd(DirectProd(h.irreps[i], h.irreps[j]), DirectProd(h.irreps[k], h.irreps[l]))
					if v := h.Vmat(i, j, k, l); prod != 0 && math.Abs(v) > tol {
						return errors.Wrapf(ErrBadSymmetry, "V(%d,%d,%d,%d) = %g", i, j, k, l, v)
					}
				}
			}
		}
	}
	return nil
}

func (h *Hamiltonian) vidx(i, j, k, l int) int {
	return ((h.check(i)*h.l+h.check(j))*h.l+h.check(k))*h.l + h.check(l)
}

func (h *Hamiltonian) check(i int) int {
	if i < 0 || i >= h.l {
		panic(fmt.Sprintf("hamiltonian: orbital %d out of range [0,%d)", i, h.l))
	}
	return i
}
