// rhf.go --  This file is part of goHF project.
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
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"gohf/internal/tensor"
)

// RHF is a restricted closed-shell Hartree-Fock solver in a non-orthogonal
// atomic basis, accelerated with DIIS.
type RHF struct {
	Occupied          int
	S, H1, S2Inv      *mat.Dense
	Vee               []float64 // (ij|kl), flat
	Vnn               float64
	Cij, DensMat, G   *mat.Dense
	F_list, DIIS_R    []*mat.Dense
	Energy            float64
	Converged         bool
	TolE, TolD        float64
	MaxSteps, MaxDIIS int

	log *zap.Logger
}

// NewRHF prepares the solver from AO integrals and builds the core guess.
func NewRHF(S, T, Ven [][]float64, Vee []float64, Vnn float64, nElec int, log *zap.Logger) (*RHF, error) {
	if nElec%2 != 0 || nElec <= 0 {
		return nil, errors.Errorf("hamiltonian: RHF needs a positive even electron count, got %d", nElec)
	}
	if log == nil {
		log = zap.NewNop()
	}
	n_basis := len(S)
	rhf := &RHF{
		Occupied: nElec / 2,
		S:        mat.NewDense(n_basis, n_basis, flatten(S)),
		H1:       mat.NewDense(n_basis, n_basis, flatten(T)),
		Vee:      Vee,
		Vnn:      Vnn,
		TolE:     1e-10,
		TolD:     1e-8,
		MaxSteps: 50,
		MaxDIIS:  8,
		log:      log,
	}
	rhf.H1.Add(rhf.H1, mat.NewDense(n_basis, n_basis, flatten(Ven)))

	var err error
	if rhf.S2Inv, err = MatrixSqrtInverse(rhf.S); err != nil {
		return nil, err
	}
	if rhf.Cij, err = rhf.diagonalize(rhf.H1); err != nil {
		return nil, errors.Wrap(err, "core guess")
	}
	rhf.BuildDensMat()
	return rhf, nil
}

// MatrixSqrtInverse returns S^{-1/2} of a symmetric positive definite S.
func MatrixSqrtInverse(S mat.Matrix) (*mat.Dense, error) {
	n_basis, _ := S.Dims()
	Smat := mat.NewSymDense(n_basis, flatten(denseRows(S)))
	var eigsym mat.EigenSym
	if ok := eigsym.Factorize(Smat, true); !ok {
		return nil, errors.New("hamiltonian: S eigendecomposition failed")
	}
	var ev mat.Dense
	eigsym.VectorsTo(&ev)
	vals := eigsym.Values(nil)
	for i := range vals {
		if vals[i] <= 0 {
			return nil, errors.Errorf("hamiltonian: overlap matrix is not positive definite (eigenvalue %g)", vals[i])
		}
		vals[i] = 1 / math.Sqrt(vals[i])
	}
	var res mat.Dense
	res.Mul(&ev, mat.NewDiagDense(n_basis, vals))
	res.Mul(&res, ev.T())
	return &res, nil
}

// diagonalize solves F C = S C e and returns C with ascending orbital energies.
func (rhf *RHF) diagonalize(F mat.Matrix) (*mat.Dense, error) {
	n_basis, _ := F.Dims()
	var Ft mat.Dense
	Ft.Mul(rhf.S2Inv, F)
	Ft.Mul(&Ft, rhf.S2Inv)
	FSym := mat.NewSymDense(n_basis, nil)
	for i := 0; i < n_basis; i++ {
		for j := i; j < n_basis; j++ {
			FSym.SetSym(i, j, 0.5*(Ft.At(i, j)+Ft.At(j, i)))
		}
	}
	var eigsym mat.EigenSym
	if ok := eigsym.Factorize(FSym, true); !ok {
		return nil, errors.New("hamiltonian: transformed F eigendecomposition failed")
	}
	var ev mat.Dense
	eigsym.VectorsTo(&ev)
	ev.Mul(rhf.S2Inv, &ev)
	return &ev, nil
}

// BuildDensMat sets D = C_occ C_occᵀ (occupation 1 per spatial orbital).
func (rhf *RHF) BuildDensMat() {
	n_basis, _ := rhf.Cij.Dims()
	occ := rhf.Cij.Slice(0, n_basis, 0, rhf.Occupied)
	rhf.DensMat = mat.NewDense(n_basis, n_basis, nil)
	rhf.DensMat.Mul(occ, occ.T())
}

// BuildG sets G = 2J - K of the current density.
func (rhf *RHF) BuildG() {
	n_basis, _ := rhf.DensMat.Dims()
	rhf.G = mat.NewDense(n_basis, n_basis, nil)
	for i := 0; i < n_basis; i++ {
		for j := 0; j < n_basis; j++ {
			value := 0.0
			for k := 0; k < n_basis; k++ {
				for l := 0; l < n_basis; l++ {
					J := rhf.Vee[tensor.Index4(n_basis, i, j, k, l)]
					K := rhf.Vee[tensor.Index4(n_basis, i, k, j, l)]
					value += rhf.DensMat.At(k, l) * (2*J - K)
				}
			}
			rhf.G.Set(i, j, value)
		}
	}
}

func (rhf *RHF) CalcEnergy() float64 {
	var hg mat.Dense
	hg.Scale(2, rhf.H1)
	hg.Add(&hg, rhf.G)
	hg.MulElem(&hg, rhf.DensMat)
	return mat.Sum(&hg) + rhf.Vnn
}

func (rhf *RHF) BuildDIIS_R(F *mat.Dense) {
	var term1, term2 mat.Dense
	term1.Mul(F, rhf.DensMat)
	term1.Mul(&term1, rhf.S)
	term2.Mul(rhf.S, rhf.DensMat)
	term2.Mul(&term2, F)
	term1.Sub(&term1, &term2)
	term1.Mul(rhf.S2Inv, &term1)
	term1.Mul(&term1, rhf.S2Inv)
	rhf.DIIS_R = append(rhf.DIIS_R, &term1)
}

func (rhf *RHF) CalcdRMS() float64 {
	res := mat.DenseCopyOf(rhf.DIIS_R[len(rhf.DIIS_R)-1])
	res.MulElem(res, res)
	return math.Sqrt(stat.Mean(res.RawMatrix().Data, nil))
}

// BuildB is the DIIS error overlap matrix bordered by -1.
func (rhf *RHF) BuildB() *mat.Dense {
	B_dim := len(rhf.F_list) + 1
	result := mat.NewDense(B_dim, B_dim, nil)
	for i := 0; i < (B_dim - 1); i++ {
		result.Set(i, B_dim-1, -1)
		result.Set(B_dim-1, i, -1)
	}
	for i := range rhf.F_list {
		for j := range rhf.F_list {
			var b mat.Dense
			b.MulElem(rhf.DIIS_R[i], rhf.DIIS_R[j])
			result.Set(i, j, mat.Sum(&b))
		}
	}
	return result
}

func (rhf *RHF) extrapolate(F *mat.Dense) *mat.Dense {
	bmat := rhf.BuildB()
	rhs := mat.NewVecDense(len(rhf.F_list)+1, nil)
	rhs.SetVec(len(rhf.F_list), -1)

	var lu mat.LU
	lu.Factorize(bmat)
	var coefs mat.VecDense
	if err := lu.SolveVecTo(&coefs, false, rhs); err != nil {
		return F
	}
	n_basis, _ := F.Dims()
	res := mat.NewDense(n_basis, n_basis, nil)
	for j := range rhf.F_list {
		var fpart mat.Dense
		fpart.Scale(coefs.AtVec(j), rhf.F_list[j])
		res.Add(res, &fpart)
	}
	return res
}

// SCF_DIIS iterates to self-consistency and returns the total energy of the
// final orbitals in rhf.Cij.
func (rhf *RHF) SCF_DIIS() (float64, error) {
	tstart := time.Now()
	res := 0.0
	E_prev := 0.0

	for i := 0; i < rhf.MaxSteps; i++ {
		E_prev = res
		rhf.BuildG()
		res = rhf.CalcEnergy()

		var F mat.Dense
		F.Add(rhf.H1, rhf.G)

		rhf.F_list = append(rhf.F_list, mat.DenseCopyOf(&F))
		rhf.BuildDIIS_R(&F)
		if len(rhf.F_list) > rhf.MaxDIIS {
			rhf.F_list = rhf.F_list[1:]
			rhf.DIIS_R = rhf.DIIS_R[1:]
		}
		dRMS := rhf.CalcdRMS()

		rhf.log.Debug("RHF iteration",
			zap.Int("iteration", i+1),
			zap.Float64("energy", res),
			zap.Float64("dE", E_prev-res),
			zap.Float64("dRMS", dRMS),
			zap.Duration("elapsed", time.Since(tstart)))
		if i > 0 && math.Abs(E_prev-res) < rhf.TolE && dRMS < rhf.TolD {
			rhf.Converged = true
			rhf.log.Info("SCF converged", zap.Int("steps", i+1), zap.Float64("energy", res))
			break
		}

		Fx := &F
		if i > 0 {
			Fx = rhf.extrapolate(&F)
		}
		C, err := rhf.diagonalize(Fx)
		if err != nil {
			return res, errors.Wrapf(err, "SCF iteration %d", i+1)
		}
		rhf.Cij = C
		rhf.BuildDensMat()
	}
	if !rhf.Converged {
		rhf.log.Warn("SCF NOT converged", zap.Int("steps", rhf.MaxSteps))
		rhf.BuildG()
	}
	rhf.Energy = rhf.CalcEnergy()
	return rhf.Energy, nil
}

func flatten(arr [][]float64) []float64 {
	dim := len(arr)
	res := make([]float64, dim*dim)
	for i := range arr {
		for j := range arr[i] {
			res[i*dim+j] = arr[i][j]
		}
	}
	return res
}

func denseRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	res := make([][]float64, r)
	for i := range res {
		res[i] = make([]float64, c)
		mat.Row(res[i], i, m)
	}
	return res
}
