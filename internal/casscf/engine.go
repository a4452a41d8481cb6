// engine.go --  This file is part of goHF project.
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

// Package casscf implements the orbital-space part of a CASSCF
// macro-iteration: generalized Fock matrices built directly from the
// original-basis integrals, rotation of active-space density matrices, the
// effective active-space Hamiltonian and pseudocanonical orbitals.
//
// The unitary is owned by the caller. Its row p in irrep i expands current
// orbital p in the original orbitals of irrep i, so operators transform as
// M ← U·M·Uᵀ.
package casscf

import (
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"gohf/internal/blockmat"
	"gohf/internal/hamiltonian"
	"gohf/internal/orbitals"
)

type Engine struct {
	ham     hamiltonian.Integrals
	idx     *orbitals.Indices
	unitary *blockmat.Unitary

	tmat, qmatOCC, qmatACT, qmatWORK *blockmat.Matrix

	rdm1     *OneRDM
	rdm2     *TwoRDM
	rdm2Work []float64

	workers int
	log     *zap.Logger
}

type Option func(*Engine)

// WithWorkers bounds the goroutines of BuildGeneralizedFock; n < 1 means
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		e.workers = n
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New checks that the integrals, index map and unitary describe the same
// orbital space and allocates the Fock-type matrices. The integrals are only
// read and may be shared.
func New(ham hamiltonian.Integrals, idx *orbitals.Indices, u *blockmat.Unitary, opts ...Option) (*Engine, error) {
	if ham.L() != idx.L() {
		return nil, errors.Wrapf(ErrDimensionMismatch, "integrals over %d orbitals, partition over %d", ham.L(), idx.L())
	}
	for orb := 0; orb < idx.L(); orb++ {
		if ham.OrbitalIrrep(orb) != idx.Irrep(orb) {
			return nil, errors.Wrapf(ErrDimensionMismatch, "orbital %d has irrep %d in the integrals and %d in the partition", orb, ham.OrbitalIrrep(orb), idx.Irrep(orb))
		}
	}
	uidx := u.Indices()
	if uidx.NIrreps() != idx.NIrreps() {
		return nil, errors.Wrapf(ErrDimensionMismatch, "unitary over %d irreps, partition over %d", uidx.NIrreps(), idx.NIrreps())
	}
	for irrep := 0; irrep < idx.NIrreps(); irrep++ {
		if uidx.NOrb(irrep) != idx.NOrb(irrep) {
			return nil, errors.Wrapf(ErrDimensionMismatch, "unitary block of irrep %d has %d orbitals, want %d", irrep, uidx.NOrb(irrep), idx.NOrb(irrep))
		}
	}

	e := &Engine{
		ham:      ham,
		idx:      idx,
		unitary:  u,
		tmat:     blockmat.NewMatrix(idx),
		qmatOCC:  blockmat.NewMatrix(idx),
		qmatACT:  blockmat.NewMatrix(idx),
		qmatWORK: blockmat.NewMatrix(idx),
		rdm1:     NewOneRDM(idx.NActTotal()),
		rdm2:     NewTwoRDM(idx.NActTotal()),
		workers:  runtime.GOMAXPROCS(0),
		log:      zap.NewNop(),
	}
	e.rdm2Work = make([]float64, len(e.rdm2.Data))
	for _, opt := range opts {
		opt(e)
	}
	e.log.Debug("orbital partition",
		zap.Ints("NORB", perIrrep(idx, idx.NOrb)),
		zap.Ints("NOCC", perIrrep(idx, idx.NOcc)),
		zap.Ints("NACT", perIrrep(idx, idx.NAct)),
		zap.Ints("NVIRT", perIrrep(idx, idx.NVirt)),
		zap.Int("x variables", idx.NumVariablesX()),
		zap.Int("workers", e.workers))
	return e, nil
}

func (e *Engine) Indices() *orbitals.Indices       { return e.idx }
func (e *Engine) Unitary() *blockmat.Unitary       { return e.unitary }
func (e *Engine) Tmatrix() *blockmat.Matrix        { return e.tmat }
func (e *Engine) QmatOCC() *blockmat.Matrix        { return e.qmatOCC }
func (e *Engine) QmatACT() *blockmat.Matrix        { return e.qmatACT }
func (e *Engine) RDM1() *OneRDM                    { return e.rdm1 }
func (e *Engine) RDM2() *TwoRDM                    { return e.rdm2 }
func (e *Engine) Integrals() hamiltonian.Integrals { return e.ham }

// SetRDMs copies the solver's density matrices, expressed in the current
// active orbitals, into the engine.
func (e *Engine) SetRDMs(rdm1 *OneRDM, rdm2 *TwoRDM) error {
	n := e.idx.NActTotal()
	if rdm1.N != n || rdm2.N != n {
		return errors.Wrapf(ErrDimensionMismatch, "RDMs over %d and %d orbitals, %d active", rdm1.N, rdm2.N, n)
	}
	copy(e.rdm1.Data, rdm1.Data)
	copy(e.rdm2.Data, rdm2.Data)
	return nil
}

// RotateActiveSpace re-expresses the active orbitals in the columns of
// eigenvecs (block-diagonal, nActTotal²): the active rows of the unitary and
// both RDMs are rotated together.
func (e *Engine) RotateActiveSpace(nElec int, eigenvecs *mat.Dense) {
	for irrep := 0; irrep < e.idx.NIrreps(); irrep++ {
		nAct := e.idx.NAct(irrep)
		if nAct == 0 {
			continue
		}
		nOcc, nOrb := e.idx.NOcc(irrep), e.idx.NOrb(irrep)
		jump := e.idx.ActStart(irrep)
		rows := e.unitary.Block(irrep).Slice(nOcc, nOcc+nAct, 0, nOrb).(*mat.Dense)
		old := mat.DenseCopyOf(rows)
		rows.Mul(eigenvecs.Slice(jump, jump+nAct, jump, jump+nAct).T(), old)
	}
	Rotate2RDMand1RDM(nElec, e.idx.NActTotal(), eigenvecs, e.rdm2, e.rdm1, e.rdm2Work)
}

func perIrrep(idx *orbitals.Indices, f func(int) int) []int {
	res := make([]int, idx.NIrreps())
	for i := range res {
		res[i] = f(i)
	}
	return res
}
