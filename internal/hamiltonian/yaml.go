// yaml.go --  This file is part of goHF project.
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
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// integralFile is the on-disk layout: sparse lists of unique integrals,
// two-electron ones in chemist notation (ij|kl).
type integralFile struct {
	Econst  float64     `yaml:"econst"`
	Irreps  []int       `yaml:"irreps"`
	OneBody [][]float64 `yaml:"one_body"`
	TwoBody [][]float64 `yaml:"two_body"`
}

// LoadYAML reads a Hamiltonian from r.
func LoadYAML(r io.Reader) (*Hamiltonian, error) {
	var f integralFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "hamiltonian: decode integrals")
	}
	h, err := New(f.Irreps)
	if err != nil {
		return nil, err
	}
	h.SetEconst(f.Econst)

	for n, e := range f.OneBody {
		ids, v, err := splitEntry(e, 2, h.l)
		if err != nil {
			return nil, errors.Wrapf(err, "one_body entry %d", n)
		}
		h.SetTmat(ids[0], ids[1], v)
	}
	for n, e := range f.TwoBody {
		ids, v, err := splitEntry(e, 4, h.l)
		if err != nil {
			return nil, errors.Wrapf(err, "two_body entry %d", n)
		}
		// (ij|kl) = V(i,k,j,l)
		h.SetVmat(ids[0], ids[2], ids[1], ids[3], v)
	}
	if err := h.CheckSymmetry(1e-12); err != nil {
		return nil, err
	}
	return h, nil
}

// LoadYAMLFile opens path and calls LoadYAML.
func LoadYAMLFile(path string) (*Hamiltonian, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "hamiltonian: open integrals")
	}
	defer file.Close()
	return LoadYAML(file)
}

func splitEntry(e []float64, nIdx, l int) ([]int, float64, error) {
	if len(e) != nIdx+1 {
		return nil, 0, errors.Errorf("hamiltonian: want %d indices and a value, got %d numbers", nIdx, len(e))
	}
	ids := make([]int, nIdx)
	for k := 0; k < nIdx; k++ {
		if e[k] != math.Trunc(e[k]) || e[k] < 0 || int(e[k]) >= l {
			return nil, 0, errors.Wrapf(ErrBadIndex, "index %v", e[k])
		}
		ids[k] = int(e[k])
	}
	return ids, e[nIdx], nil
}
