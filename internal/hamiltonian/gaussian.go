// gaussian.go --  This file is part of goHF project.
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

// По мотивам https://github.com/nickelandcopper/HartreeFockPythonProgram/blob/main/Hartree_Fock_Program.ipynb

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mathext"
)

// PrimitiveGaussian is an s-type primitive; Coords in bohr.
type PrimitiveGaussian struct {
	Alpha  float64
	Coeff  float64
	Coords [3]float64
}

func (p PrimitiveGaussian) NormCoeff() float64 {
	return math.Pow((2 * p.Alpha / math.Pi), 0.75)
}

// AO is a contracted basis function.
type AO struct {
	PGs []PrimitiveGaussian
}

type Atom struct {
	Z      int
	Coords [3]float64
}

// hydrogen contractions as (alpha, coeff) per AO
var hydrogenBasis = map[string][][][2]float64{
	"sto-3g": {
		{{0.3425250914e+01, 0.1543289673e+00}, {0.6239137298e+00, 0.5353281423e+00}, {0.1688554040e+00, 0.4446345422e+00}},
	},
	"6-31g": {
		{{0.1873113696e+02, 0.3349460434e-01}, {0.2825394365e+01, 0.2347269535e+00}, {0.6401216923e+00, 0.8137573261e+00}},
		{{0.1612777588e+00, 1.0000000}},
	},
}

// HydrogenChainBasis places n hydrogen atoms on the x axis, dist bohr apart.
func HydrogenChainBasis(n int, dist float64, basis string) ([]Atom, []AO, error) {
	shells, ok := hydrogenBasis[strings.ToLower(basis)]
	if !ok {
		return nil, nil, errors.Errorf("hamiltonian: unknown basis %q", basis)
	}
	if n < 1 || dist <= 0 {
		return nil, nil, errors.Errorf("hamiltonian: bad chain of %d atoms spaced %g", n, dist)
	}
	var atoms []Atom
	var aos []AO
	for a := 0; a < n; a++ {
		at := Atom{1, [3]float64{float64(a) * dist, 0.0, 0.0}}
		atoms = append(atoms, at)
		for _, shell := range shells {
			var ao AO
			for _, pg := range shell {
				ao.PGs = append(ao.PGs, PrimitiveGaussian{pg[0], pg[1], at.Coords})
			}
			aos = append(aos, ao)
		}
	}
	return atoms, aos, nil
}

func dist2(v1, v2 [3]float64) float64 {
	d := []float64{v2[0] - v1[0], v2[1] - v1[1], v2[2] - v1[2]}
	return floats.Dot(d, d)
}

// productCenter is the centre of the Gaussian product of exponents a1, a2.
func productCenter(a1, a2 float64, v1, v2 [3]float64) [3]float64 {
	var res [3]float64
	for i := range res {
		res[i] = (a1*v1[i] + a2*v2[i]) / (a1 + a2)
	}
	return res
}

func newSquare(n int) [][]float64 {
	res := make([][]float64, n)
	for i := range res {
		res[i] = make([]float64, n)
	}
	return res
}

func Overlap(m []AO) [][]float64 {
	res := newSquare(len(m))
	for i := range m {
		for j := range m {
			for _, pi := range m[i].PGs {
				for _, pj := range m[j].PGs {
					N := pi.NormCoeff() * pj.NormCoeff()
					p := pi.Alpha + pj.Alpha
					q := pi.Alpha * pj.Alpha / p
					Q2 := dist2(pi.Coords, pj.Coords)
					res[i][j] += N * pi.Coeff * pj.Coeff * math.Exp(-q*Q2) * math.Pow((math.Pi/p), 1.5)
				}
			}
		}
	}
	return res
}

func Kinetic(m []AO) [][]float64 {
	res := newSquare(len(m))
	for i := range m {
		for j := range m {
			for _, pi := range m[i].PGs {
				for _, pj := range m[j].PGs {
					N := pi.NormCoeff() * pj.NormCoeff()
					p := pi.Alpha + pj.Alpha
					q := pi.Alpha * pj.Alpha / p
					Q2 := dist2(pi.Coords, pj.Coords)
					PG2 := dist2(productCenter(pi.Alpha, pj.Alpha, pi.Coords, pj.Coords), pj.Coords)

					s := N * pi.Coeff * pj.Coeff * math.Exp(-q*Q2) * math.Pow((math.Pi/p), 1.5)
					res[i][j] += 3 * pj.Alpha * s
					res[i][j] -= 2 * pj.Alpha * pj.Alpha * s * (PG2 + 1.5/p)
				}
			}
		}
	}
	return res
}

func boys(x float64, n int) float64 {
	nf := float64(n)
	if x == 0 {
		return 1.0 / (2.0*nf + 1)
	}
	return mathext.GammaIncReg(nf+0.5, x) * math.Gamma(nf+0.5) * (1.0 / (2.0 * math.Pow(x, (nf+0.5))))
}

// NuclearAttraction is the electron-nucleus potential matrix.
func NuclearAttraction(m []AO, atoms []Atom) [][]float64 {
	res := newSquare(len(m))
	for _, at := range atoms {
		for i := range m {
			for j := range m {
				for _, pi := range m[i].PGs {
					for _, pj := range m[j].PGs {
						N := pi.NormCoeff() * pj.NormCoeff()
						p := pi.Alpha + pj.Alpha
						q := pi.Alpha * pj.Alpha / p
						Q2 := dist2(pi.Coords, pj.Coords)
						PG2 := dist2(productCenter(pi.Alpha, pj.Alpha, pi.Coords, pj.Coords), at.Coords)
						res[i][j] += -float64(at.Z) * N * pi.Coeff * pj.Coeff * math.Exp(-q*Q2) * (2.0 * math.Pi / p) * boys(p*PG2, 0)
					}
				}
			}
		}
	}
	return res
}

// ElectronRepulsion returns (ij|kl) in chemist notation as a flat n⁴ slice.
// Only the unique quadruples are integrated.
func ElectronRepulsion(m []AO) []float64 {
	n := len(m)
	res := make([]float64, n*n*n*n)
	at := func(i, j, k, l int) int { return ((i*n+j)*n+k)*n + l }
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			for k := 0; k < n; k++ {
				for l := 0; l <= k; l++ {
					if i*(i+1)/2+j < k*(k+1)/2+l {
						continue
					}
					v := eri(m[i], m[j], m[k], m[l])
					for _, p := range [8][4]int{
						{i, j, k, l}, {j, i, k, l}, {i, j, l, k}, {j, i, l, k},
						{k, l, i, j}, {l, k, i, j}, {k, l, j, i}, {l, k, j, i},
					} {
						res[at(p[0], p[1], p[2], p[3])] = v
					}
				}
			}
		}
	}
	return res
}

func eri(a, b, c, d AO) float64 {
	res := 0.0
	for _, pi := range a.PGs {
		for _, pj := range b.PGs {
			for _, pk := range c.PGs {
				for _, pl := range d.PGs {
					N := pi.NormCoeff() * pj.NormCoeff() * pk.NormCoeff() * pl.NormCoeff()
					cicjckcl := pi.Coeff * pj.Coeff * pk.Coeff * pl.Coeff

					pij := pi.Alpha + pj.Alpha
					pkl := pk.Alpha + pl.Alpha
					PP2 := dist2(productCenter(pi.Alpha, pj.Alpha, pi.Coords, pj.Coords), productCenter(pk.Alpha, pl.Alpha, pk.Coords, pl.Coords))
					denom := (1.0 / pij) + (1.0 / pkl)

					qij := pi.Alpha * pj.Alpha / pij
					qkl := pk.Alpha * pl.Alpha / pkl

					term1 := 2.0 * math.Pi * math.Pi / (pij * pkl)
					term2 := math.Sqrt(math.Pi / (pij + pkl))
					term3 := math.Exp(-qij * dist2(pi.Coords, pj.Coords))
					term4 := math.Exp(-qkl * dist2(pk.Coords, pl.Coords))

					res += N * cicjckcl * term1 * term2 * term3 * term4 * boys(PP2/denom, 0)
				}
			}
		}
	}
	return res
}

// NuclearRepulsion is the nucleus-nucleus energy.
func NuclearRepulsion(atoms []Atom) float64 {
	res := 0.0
	for i := range atoms {
		for j := 0; j < i; j++ {
			res += float64(atoms[i].Z) * float64(atoms[j].Z) / math.Sqrt(dist2(atoms[i].Coords, atoms[j].Coords))
		}
	}
	return res
}
