// chain.go --  This file is part of goHF project.
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
package hamiltonian

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"gohf/internal/tensor"
)

// HydrogenChain computes the integrals of a linear H_n chain, converges RHF
// and returns the Hamiltonian over the RHF molecular orbitals (all in the
// totally symmetric irrep), ordered by orbital energy.
func HydrogenChain(n int, dist float64, basis string, log *zap.Logger) (*Hamiltonian, *RHF, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tstart := time.Now()
	atoms, aos, err := HydrogenChainBasis(n, dist, basis)
	if err != nil {
		return nil, nil, err
	}
	S := Overlap(aos)
	T := Kinetic(aos)
	Ven := NuclearAttraction(aos, atoms)
	Vee := ElectronRepulsion(aos)
	log.Info("AO integrals done",
		zap.Int("atoms", n),
		zap.Int("basis functions", len(aos)),
		zap.Duration("elapsed", time.Since(tstart)))

	rhf, err := NewRHF(S, T, Ven, Vee, NuclearRepulsion(atoms), n, log)
	if err != nil {
		return nil, nil, err
	}
	if _, err := rhf.SCF_DIIS(); err != nil {
		return nil, nil, err
	}
	ham, err := rhf.MOHamiltonian()
	if err != nil {
		return nil, nil, errors.Wrap(err, "MO transformation")
	}
	return ham, rhf, nil
}

// MOHamiltonian transforms the AO integrals to the current orbitals Cij.
func (rhf *RHF) MOHamiltonian() (*Hamiltonian, error) {
	n_basis, _ := rhf.Cij.Dims()
	ham, err := New(make([]int, n_basis))
	if err != nil {
		return nil, err
	}
	ham.SetEconst(rhf.Vnn)

	var h1 mat.Dense
	h1.Mul(rhf.Cij.T(), rhf.H1)
	h1.Mul(&h1, rhf.Cij)
	for p := 0; p < n_basis; p++ {
		for q := p; q < n_basis; q++ {
			ham.SetTmat(p, q, h1.At(p, q))
		}
	}

	// (pq|rs) = V(p,r,q,s)
	vmo := tensor.Transform4(rhf.Cij.T(), rhf.Vee, n_basis)
	for p := 0; p < n_basis; p++ {
		for q := 0; q < n_basis; q++ {
			for r := 0; r < n_basis; r++ {
				for s := 0; s < n_basis; s++ {
					ham.vmat[ham.vidx(p, r, q, s)] = vmo[tensor.Index4(n_basis, p, q, r, s)]
				}
			}
		}
	}
	return ham, nil
}
