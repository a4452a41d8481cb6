// fock.go --  This file is part of goHF project.
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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"gohf/internal/blockmat"
)

// RotateOldToNew transforms every block of m from the original to the
// current orbitals, using the engine's work matrix as scratch.
func (e *Engine) RotateOldToNew(m *blockmat.Matrix) {
	e.unitary.RotateOldToNew(m, e.qmatWORK)
}

// BuildGeneralizedFock contracts a one-particle density, given in original
// orbitals, with the original two-electron integrals into Coulomb minus half
// exchange, and stores the result in the current orbitals in result.
// density must not be result.
func (e *Engine) BuildGeneralizedFock(density, result *blockmat.Matrix) {
	e.coulombAndExchangeInOrigIndices(density, result)
	e.RotateOldToNew(result)
}

func (e *Engine) coulombAndExchangeInOrigIndices(density, result *blockmat.Matrix) {
	tstart := time.Now()
	for irrepQ := 0; irrepQ < e.idx.NIrreps(); irrepQ++ {
		linearsizeQ := e.idx.NOrb(irrepQ)
		numberOfUniqueIndices := (linearsizeQ * (linearsizeQ + 1)) / 2
		if numberOfUniqueIndices == 0 {
			continue
		}
		chunk := (numberOfUniqueIndices + e.workers - 1) / e.workers

		// every pair owns two distinct cells of result: no locking
		var g errgroup.Group
		g.SetLimit(e.workers)
		for start := 0; start < numberOfUniqueIndices; start += chunk {
			start := start
			stop := min(start+chunk, numberOfUniqueIndices)
			g.Go(func() error {
				for combinedindex := start; combinedindex < stop; combinedindex++ {
					rowQ, colQ := triangularPair(combinedindex)
					theValue := e.coulombAndExchange(density, irrepQ, rowQ, colQ)
					result.Set(irrepQ, rowQ, colQ, theValue)
					result.Set(irrepQ, colQ, rowQ, theValue)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			panic(err)
		}
	}
	e.log.Debug("Coulomb and exchange contraction",
		zap.Int("workers", e.workers),
		zap.Duration("elapsed", time.Since(tstart)))
}

func (e *Engine) coulombAndExchange(density *blockmat.Matrix, irrepQ, rowQ, colQ int) float64 {
	HamIndexI := e.idx.OrigStart(irrepQ) + rowQ
	HamIndexJ := e.idx.OrigStart(irrepQ) + colQ

	theValue := 0.0
	for irrepN := 0; irrepN < e.idx.NIrreps(); irrepN++ {
		linearsizeN := e.idx.NOrb(irrepN)
		shiftN := e.idx.OrigStart(irrepN)
		for rowN := 0; rowN < linearsizeN; rowN++ {
			HamIndexS := shiftN + rowN
			theValue += density.At(irrepN, rowN, rowN) * (e.ham.Vmat(HamIndexI, HamIndexS, HamIndexJ, HamIndexS) -
				0.5*e.ham.Vmat(HamIndexI, HamIndexJ, HamIndexS, HamIndexS))

			for colN := rowN + 1; colN < linearsizeN; colN++ {
				HamIndexT := shiftN + colN
				theValue += density.At(irrepN, rowN, colN) * (2*e.ham.Vmat(HamIndexI, HamIndexS, HamIndexJ, HamIndexT) -
					0.5*e.ham.Vmat(HamIndexI, HamIndexJ, HamIndexS, HamIndexT) -
					0.5*e.ham.Vmat(HamIndexI, HamIndexJ, HamIndexT, HamIndexS))
			}
		}
	}
	return theValue
}

// triangularPair maps k to (row, col) with row <= col in column-wise
// upper-triangular order: (0,0), (0,1), (1,1), (0,2), ...
func triangularPair(k int) (int, int) {
	col := 1
	for (col*(col+1))/2 <= k {
		col++
	}
	col--
	return k - (col*(col+1))/2, col
}

// BuildQmatOCC builds the Q-matrix of the doubly occupied orbitals from
// D = 2·U_occᵀ·U_occ.
func (e *Engine) BuildQmatOCC() {
	for irrep := 0; irrep < e.idx.NIrreps(); irrep++ {
		work := e.qmatWORK.Block(irrep)
		if work == nil {
			continue
		}
		nOcc, nOrb := e.idx.NOcc(irrep), e.idx.NOrb(irrep)
		if nOcc == 0 {
			work.Zero()
			continue
		}
		uocc := e.unitary.Block(irrep).Slice(0, nOcc, 0, nOrb)
		work.Mul(uocc.T(), uocc)
		work.Scale(2, work)
	}
	e.BuildGeneralizedFock(e.qmatWORK, e.qmatOCC)
}

// BuildQmatACT builds the Q-matrix of the active space from
// D = U_actᵀ·ρ1·U_act with the 1-RDM in the current orbitals.
func (e *Engine) BuildQmatACT() {
	for irrep := 0; irrep < e.idx.NIrreps(); irrep++ {
		work := e.qmatWORK.Block(irrep)
		if work == nil {
			continue
		}
		nAct := e.idx.NAct(irrep)
		if nAct == 0 {
			work.Zero()
			continue
		}
		nOcc, nOrb := e.idx.NOcc(irrep), e.idx.NOrb(irrep)
		jump := e.idx.ActStart(irrep)
		uact := e.unitary.Block(irrep).Slice(nOcc, nOcc+nAct, 0, nOrb)
		rdm := e.rdm1.Dense().Slice(jump, jump+nAct, jump, jump+nAct)
		var tmp mat.Dense
		tmp.Mul(uact.T(), rdm)
		work.Mul(&tmp, uact)
	}
	e.BuildGeneralizedFock(e.qmatWORK, e.qmatACT)
}

// BuildTmatrix copies the one-electron integrals and rotates them.
func (e *Engine) BuildTmatrix() {
	for irrep := 0; irrep < e.idx.NIrreps(); irrep++ {
		numORB := e.idx.NOrb(irrep)
		shift := e.idx.OrigStart(irrep)
		for row := 0; row < numORB; row++ {
			for col := 0; col < numORB; col++ {
				e.tmat.Set(irrep, row, col, e.ham.Tmat(shift+row, shift+col))
			}
		}
	}
	e.RotateOldToNew(e.tmat)
}

// BuildKmatAndersson builds the K-matrix of Andersson, Theor. Chim. Acta 91,
// 31-46 (1995), from (2 - ρ1)·ρ1 in the current orbitals into result.
func (e *Engine) BuildKmatAndersson(result *blockmat.Matrix) {
	e.qmatWORK.Clear()

	// (2 - ρ1)·ρ1 is non-zero only on the active block; rotate it to the original orbitals
	for irrep := 0; irrep < e.idx.NIrreps(); irrep++ {
		nAct := e.idx.NAct(irrep)
		if nAct == 0 {
			continue
		}
		jump := e.idx.ActStart(irrep)
		rdm := e.rdm1.Dense().Slice(jump, jump+nAct, jump, jump+nAct)
		var w mat.Dense
		w.Mul(rdm, rdm)
		w.Scale(-1, &w)
		var twice mat.Dense
		twice.Scale(2, rdm)
		w.Add(&w, &twice)

		nOcc, nOrb := e.idx.NOcc(irrep), e.idx.NOrb(irrep)
		uact := e.unitary.Block(irrep).Slice(nOcc, nOcc+nAct, 0, nOrb)
		var tmp mat.Dense
		tmp.Mul(uact.T(), &w)
		e.qmatWORK.Block(irrep).Mul(&tmp, uact)
	}

	for irrep1 := 0; irrep1 < e.idx.NIrreps(); irrep1++ {
		shift1 := e.idx.OrigStart(irrep1)
		NORB1 := e.idx.NOrb(irrep1)
		for row1 := 0; row1 < NORB1; row1++ {
			for col1 := 0; col1 < NORB1; col1++ {
				value := 0.0
				for irrep2 := 0; irrep2 < e.idx.NIrreps(); irrep2++ {
					shift2 := e.idx.OrigStart(irrep2)
					NORB2 := e.idx.NOrb(irrep2)
					for row2 := 0; row2 < NORB2; row2++ {
						for col2 := 0; col2 < NORB2; col2++ {
							value += e.qmatWORK.At(irrep2, row2, col2) * e.ham.Vmat(shift1+row1, shift2+col2, shift2+row2, shift1+col1)
						}
					}
				}
				result.Set(irrep1, row1, col1, value)
			}
		}
	}
	e.RotateOldToNew(result)
}
