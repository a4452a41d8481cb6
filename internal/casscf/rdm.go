// rdm.go --  This file is part of goHF project.
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
	"fmt"

	"gonum.org/v1/gonum/mat"

	"gohf/internal/tensor"
)

// OneRDM is the spin-summed active-space 1-RDM, row-major n×n.
type OneRDM struct {
	N    int
	Data []float64
}

func NewOneRDM(n int) *OneRDM { return &OneRDM{N: n, Data: make([]float64, n*n)} }

func (r *OneRDM) At(i, j int) float64     { return r.Data[i*r.N+j] }
func (r *OneRDM) Set(i, j int, v float64) { r.Data[i*r.N+j] = v }

// Dense is a view sharing r's storage. N must be positive.
func (r *OneRDM) Dense() *mat.Dense { return mat.NewDense(r.N, r.N, r.Data) }

func (r *OneRDM) Trace() float64 {
	res := 0.0
	for i := 0; i < r.N; i++ {
		res += r.At(i, i)
	}
	return res
}

// TwoRDM is the spin-summed active-space 2-RDM in physicist ordering,
// Γ(i,j,k,l) = Σ_στ <a†_iσ a†_jτ a_lτ a_kσ>, stored row-major.
type TwoRDM struct {
	N    int
	Data []float64
}

func NewTwoRDM(n int) *TwoRDM { return &TwoRDM{N: n, Data: make([]float64, n*n*n*n)} }

func (r *TwoRDM) At(i, j, k, l int) float64     { return r.Data[tensor.Index4(r.N, i, j, k, l)] }
func (r *TwoRDM) Set(i, j, k, l int, v float64) { r.Data[tensor.Index4(r.N, i, j, k, l)] = v }

// Scale multiplies every element by alpha, e.g. a state weight.
func (r *TwoRDM) Scale(alpha float64) {
	for i := range r.Data {
		r.Data[i] *= alpha
	}
}

// ThreeRDM is a read-only copy of the solver's 3-RDM; it is never rotated.
type ThreeRDM struct {
	N    int
	Data []float64
}

func (r *ThreeRDM) At(i, j, k, l, m, n int) float64 {
	return r.Data[i+r.N*(j+r.N*(k+r.N*(l+r.N*(m+r.N*n))))]
}

// CopyThreeRDM copies all n⁶ elements exposed by get.
func CopyThreeRDM(n int, get func(i, j, k, l, m, n int) float64) *ThreeRDM {
	res := &ThreeRDM{N: n, Data: make([]float64, n*n*n*n*n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				for l := 0; l < n; l++ {
					for m := 0; m < n; m++ {
						for o := 0; o < n; o++ {
							res.Data[i+n*(j+n*(k+n*(l+n*(m+n*o))))] = get(i, j, k, l, m, o)
						}
					}
				}
			}
		}
	}
	return res
}

// Accumulate2RDM adds source into target. Weights of state-averaged
// calculations are applied to source by the caller.
func Accumulate2RDM(source, target *TwoRDM) {
	if source.N != target.N {
		panic(fmt.Sprintf("casscf: accumulating a %d-orbital 2-RDM into a %d-orbital one", source.N, target.N))
	}
	for i, v := range source.Data {
		target.Data[i] += v
	}
}

// Set1RDMFrom2RDM sets ρ1(p,q) = Σ_r Γ(p,r,q,r) / (nElec-1), symmetrised.
// nElec must exceed one; the caller guards this.
func Set1RDMFrom2RDM(nElec int, rdm2 *TwoRDM, rdm1 *OneRDM) {
	prefactor := 1.0 / (float64(nElec) - 1.0)
	n := rdm2.N
	for p := 0; p < n; p++ {
		for q := p; q < n; q++ {
			value := 0.0
			for r := 0; r < n; r++ {
				value += rdm2.At(p, r, q, r)
			}
			rdm1.Set(p, q, prefactor*value)
			rdm1.Set(q, p, prefactor*value)
		}
	}
}

// Rotate2RDMand1RDM rotates all four indices of rdm2 with eigenvecs,
// Γ'(a,b,c,d) = Σ V(i,a)V(j,b)V(k,c)V(l,d) Γ(i,j,k,l), one index at a time,
// and recomputes rdm1 from the result. work must hold nAct⁴ values or be nil.
// Mismatched sizes panic.
func Rotate2RDMand1RDM(nElec, nAct int, eigenvecs mat.Matrix, rdm2 *TwoRDM, rdm1 *OneRDM, work []float64) {
	if rdm2.N != nAct || rdm1.N != nAct {
		panic(fmt.Sprintf("casscf: rotating RDMs over %d (2-RDM) and %d (1-RDM) orbitals with %d active orbitals", rdm2.N, rdm1.N, nAct))
	}
	if nAct == 0 {
		return
	}
	if r, c := eigenvecs.Dims(); r != nAct || c != nAct {
		panic(fmt.Sprintf("casscf: %dx%d active rotation for %d active orbitals", r, c, nAct))
	}
	if work == nil {
		work = make([]float64, len(rdm2.Data))
	}
	tensor.Rotate4(eigenvecs.T(), rdm2.Data, work, nAct)
	Set1RDMFrom2RDM(nElec, rdm2, rdm1)
}

// DeterminantRDMs returns the RDMs of one Slater determinant over the active
// orbitals; alpha[i] and beta[i] tell whether orbital i holds that spin.
func DeterminantRDMs(alpha, beta []bool) (*OneRDM, *TwoRDM) {
	n := len(alpha)
	occ := func(b bool) float64 {
		if b {
			return 1
		}
		return 0
	}
	rdm1 := NewOneRDM(n)
	rdm2 := NewTwoRDM(n)
	for i := 0; i < n; i++ {
		ni := occ(alpha[i]) + occ(beta[i])
		rdm1.Set(i, i, ni)
		for j := 0; j < n; j++ {
			nj := occ(alpha[j]) + occ(beta[j])
			same := occ(alpha[i])*occ(alpha[j]) + occ(beta[i])*occ(beta[j])
			rdm2.Set(i, j, i, j, rdm2.At(i, j, i, j)+ni*nj)
			rdm2.Set(i, j, j, i, rdm2.At(i, j, j, i)-same)
		}
	}
	return rdm1, rdm2
}
