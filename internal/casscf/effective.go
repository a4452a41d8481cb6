// effective.go --  This file is part of goHF project.
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
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"gohf/internal/hamiltonian"
	"gohf/internal/tensor"
)

// NewActiveHamiltonian allocates an empty Hamiltonian over the active orbitals.
func (e *Engine) NewActiveHamiltonian() (*hamiltonian.Hamiltonian, error) {
	return hamiltonian.New(e.idx.ActiveIrreps())
}

func (e *Engine) checkActiveTarget(target hamiltonian.Integrals) error {
	if target.L() != e.idx.NActTotal() {
		return errors.Wrapf(ErrDimensionMismatch, "active Hamiltonian over %d orbitals, %d active", target.L(), e.idx.NActTotal())
	}
	return nil
}

// FillConstAndOneElectron sets the constant and one-electron part of the
// active-space Hamiltonian from the current T and Q-occupied matrices.
func (e *Engine) FillConstAndOneElectron(target *hamiltonian.Hamiltonian) error {
	if err := e.checkActiveTarget(target); err != nil {
		return err
	}

	// closed-shell energy of the occupied orbitals
	value := e.ham.Econst()
	for irrep := 0; irrep < e.idx.NIrreps(); irrep++ {
		for orb := 0; orb < e.idx.NOcc(irrep); orb++ {
			value += 2*e.tmat.At(irrep, orb, orb) + e.qmatOCC.At(irrep, orb, orb)
		}
	}
	target.SetEconst(value)

	// one-body terms, diagonal in the irreps
	for irrep := 0; irrep < e.idx.NIrreps(); irrep++ {
		passed := e.idx.ActStart(irrep)
		linsize := e.idx.NAct(irrep)
		numOCC := e.idx.NOcc(irrep)
		for cnt1 := 0; cnt1 < linsize; cnt1++ {
			for cnt2 := cnt1; cnt2 < linsize; cnt2++ {
				target.SetTmat(passed+cnt1, passed+cnt2,
					e.tmat.At(irrep, numOCC+cnt1, numOCC+cnt2)+e.qmatOCC.At(irrep, numOCC+cnt1, numOCC+cnt2))
			}
		}
	}
	return nil
}

// FillActiveIntegrals sets the two-electron integrals of target to the
// original integrals transformed to the current active orbitals.
func (e *Engine) FillActiveIntegrals(target *hamiltonian.Hamiltonian) error {
	if err := e.checkActiveTarget(target); err != nil {
		return err
	}
	nAct, L := e.idx.NActTotal(), e.idx.L()
	if nAct == 0 {
		return nil
	}
	tstart := time.Now()

	// rows: current active orbitals, columns: original orbitals
	c := mat.NewDense(nAct, L, nil)
	for irrep := 0; irrep < e.idx.NIrreps(); irrep++ {
		n := e.idx.NAct(irrep)
		if n == 0 {
			continue
		}
		nOcc, nOrb := e.idx.NOcc(irrep), e.idx.NOrb(irrep)
		jump, shift := e.idx.ActStart(irrep), e.idx.OrigStart(irrep)
		c.Slice(jump, jump+n, shift, shift+nOrb).(*mat.Dense).Copy(e.unitary.Block(irrep).Slice(nOcc, nOcc+n, 0, nOrb))
	}

	orig := make([]float64, L*L*L*L)
	for i := 0; i < L; i++ {
		for j := 0; j < L; j++ {
			for k := 0; k < L; k++ {
				for l := 0; l < L; l++ {
					orig[tensor.Index4(L, i, j, k, l)] = e.ham.Vmat(i, j, k, l)
				}
			}
		}
	}
	active := tensor.Transform4(c, orig, L)
	for a := 0; a < nAct; a++ {
		for b := 0; b < nAct; b++ {
			for cc := 0; cc < nAct; cc++ {
				for d := 0; d < nAct; d++ {
					target.SetVmat(a, b, cc, d, active[tensor.Index4(nAct, a, b, cc, d)])
				}
			}
		}
	}
	e.log.Debug("active integrals transformed",
		zap.Int("active orbitals", nAct),
		zap.Duration("elapsed", time.Since(tstart)))
	return nil
}

// ActiveSpaceEnergy evaluates Econst + Σ T·ρ1 + ½ Σ V·Γ for an active-space
// Hamiltonian and density matrices over the same orbitals.
func ActiveSpaceEnergy(h hamiltonian.Integrals, rdm1 *OneRDM, rdm2 *TwoRDM) (float64, error) {
	n := h.L()
	if rdm1.N != n || rdm2.N != n {
		return 0, errors.Wrapf(ErrDimensionMismatch, "RDMs over %d and %d orbitals, Hamiltonian over %d", rdm1.N, rdm2.N, n)
	}
	res := h.Econst()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			res += h.Tmat(i, j) * rdm1.At(i, j)
			for k := 0; k < n; k++ {
				for l := 0; l < n; l++ {
					res += 0.5 * h.Vmat(i, j, k, l) * rdm2.At(i, j, k, l)
				}
			}
		}
	}
	return res, nil
}
