// indices.go --  This file is part of goHF project.
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

// Package orbitals holds the irrep-blocked bookkeeping of the orbital space:
// how many occupied, active and virtual orbitals every irrep carries and where
// each subrange starts. An Indices value is never modified after New.
package orbitals

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// ErrBadPartition is returned by New for inconsistent orbital counts.
var ErrBadPartition = errors.New("orbitals: invalid irrep partition")

type Indices struct {
	nOcc, nAct, nVirt, nOrb []int
	origStart               []int // Σ_{j<i} nOrb[j], length nIrreps+1
	actStart                []int // Σ_{j<i} nAct[j], length nIrreps+1
	irrepOf                 []int // irrep of every original-basis orbital
}

// New builds the index map for the given per-irrep counts.
func New(nOcc, nAct, nVirt []int) (*Indices, error) {
	nIrreps := len(nOcc)
	if nIrreps == 0 {
		return nil, errors.Wrap(ErrBadPartition, "no irreps")
	}
	if len(nAct) != nIrreps || len(nVirt) != nIrreps {
		return nil, errors.Wrapf(ErrBadPartition, "lengths differ: occupied %d, active %d, virtual %d", len(nOcc), len(nAct), len(nVirt))
	}
	negative := func(n int) bool { return n < 0 }
	for name, counts := range map[string][]int{"occupied": nOcc, "active": nAct, "virtual": nVirt} {
		if i := slices.IndexFunc(counts, negative); i >= 0 {
			return nil, errors.Wrapf(ErrBadPartition, "negative %s count %d in irrep %d", name, counts[i], i)
		}
	}

	idx := &Indices{
		nOcc:      slices.Clone(nOcc),
		nAct:      slices.Clone(nAct),
		nVirt:     slices.Clone(nVirt),
		nOrb:      make([]int, nIrreps),
		origStart: make([]int, nIrreps+1),
		actStart:  make([]int, nIrreps+1),
	}
	for i := 0; i < nIrreps; i++ {
		idx.nOrb[i] = nOcc[i] + nAct[i] + nVirt[i]
		idx.origStart[i+1] = idx.origStart[i] + idx.nOrb[i]
		idx.actStart[i+1] = idx.actStart[i] + nAct[i]
		for k := 0; k < idx.nOrb[i]; k++ {
			idx.irrepOf = append(idx.irrepOf, i)
		}
	}
	if idx.origStart[nIrreps] == 0 {
		return nil, errors.Wrap(ErrBadPartition, "no orbitals")
	}
	return idx, nil
}

func (idx *Indices) NIrreps() int { return len(idx.nOrb) }

func (idx *Indices) NOcc(irrep int) int  { return idx.nOcc[idx.check(irrep)] }
func (idx *Indices) NAct(irrep int) int  { return idx.nAct[idx.check(irrep)] }
func (idx *Indices) NVirt(irrep int) int { return idx.nVirt[idx.check(irrep)] }
func (idx *Indices) NOrb(irrep int) int  { return idx.nOrb[idx.check(irrep)] }

// OrigStart is the original-basis global index of the first orbital of irrep.
func (idx *Indices) OrigStart(irrep int) int { return idx.origStart[idx.check(irrep)] }

// ActStart is the cumulative number of active orbitals in the irreps before
// irrep. ActStart(NIrreps()) equals NActTotal().
func (idx *Indices) ActStart(irrep int) int {
	if irrep < 0 || irrep > idx.NIrreps() {
		panic(fmt.Sprintf("orbitals: irrep %d out of range [0,%d]", irrep, idx.NIrreps()))
	}
	return idx.actStart[irrep]
}

func (idx *Indices) NActTotal() int { return idx.actStart[idx.NIrreps()] }

// L is the total number of orbitals.
func (idx *Indices) L() int { return idx.origStart[idx.NIrreps()] }

// Irrep returns the irrep of an original-basis global orbital index.
func (idx *Indices) Irrep(orb int) int {
	if orb < 0 || orb >= len(idx.irrepOf) {
		panic(fmt.Sprintf("orbitals: orbital %d out of range [0,%d)", orb, len(idx.irrepOf)))
	}
	return idx.irrepOf[orb]
}

// ActiveIrreps lists the irrep of every active orbital in active ordering.
func (idx *Indices) ActiveIrreps() []int {
	res := make([]int, 0, idx.NActTotal())
	for irrep, n := range idx.nAct {
		for k := 0; k < n; k++ {
			res = append(res, irrep)
		}
	}
	return res
}

// NumVariablesX counts the non-redundant rotations (occ-act, occ-virt, act-virt).
func (idx *Indices) NumVariablesX() int {
	res := 0
	for i := range idx.nOrb {
		res += idx.nOcc[i]*idx.nAct[i] + idx.nOcc[i]*idx.nVirt[i] + idx.nAct[i]*idx.nVirt[i]
	}
	return res
}

func (idx *Indices) String() string {
	var b strings.Builder
	row := func(name string, data []int) {
		fmt.Fprintf(&b, "%-8s= [", name)
		for i, n := range data {
			if i > 0 {
				b.WriteString(" , ")
			}
			fmt.Fprintf(&b, " %d", n)
		}
		b.WriteString(" ]\n")
	}
	row("NORB", idx.nOrb)
	row("NOCC", idx.nOcc)
	row("NACT", idx.nAct)
	row("NVIRT", idx.nVirt)
	return b.String()
}

func (idx *Indices) check(irrep int) int {
	if irrep < 0 || irrep >= len(idx.nOrb) {
		panic(fmt.Sprintf("orbitals: irrep %d out of range [0,%d)", irrep, len(idx.nOrb)))
	}
	return irrep
}
