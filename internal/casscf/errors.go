// errors.go --  This file is part of goHF project.
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

import "github.com/pkg/errors"

var (
	// ErrDimensionMismatch: collaborators disagree on the orbital space.
	ErrDimensionMismatch = errors.New("casscf: dimension mismatch")

	// ErrEigenFailed: a symmetric eigen-decomposition did not converge.
	// Fatal for the macro-iteration, never retried.
	ErrEigenFailed = errors.New("casscf: eigen decomposition failed")
)
