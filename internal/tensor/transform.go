// transform.go --  This file is part of goHF project.
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

// Package tensor contracts single indices of dense row-major rank-4 tensors
// with a matrix, one index at a time, as reshaped matrix multiplications.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Index4 is the row-major offset of (i,j,k,l) in an n⁴ tensor.
func Index4(n, i, j, k, l int) int {
	return ((i*n+j)*n+k)*n + l
}

// ContractIndex writes dst = c applied to index pos of the rank-4 tensor src
// with dimensions dims: dst[..a..] = Σ_i c(a,i) src[..i..]. c has dims[pos]
// columns; its row count becomes the new extent of index pos, which is
// returned as the dimensions of dst.
func ContractIndex(dst, src []float64, dims [4]int, pos int, c mat.Matrix) [4]int {
	m, n := c.Dims()
	if n != dims[pos] {
		panic(fmt.Sprintf("tensor: contraction matrix has %d columns, index %d has extent %d", n, pos, dims[pos]))
	}
	outer, inner := 1, 1
	for p := 0; p < pos; p++ {
		outer *= dims[p]
	}
	for p := pos + 1; p < 4; p++ {
		inner *= dims[p]
	}
	res := dims
	res[pos] = m
	if outer == 0 || inner == 0 || m == 0 {
		return res
	}
	if len(src) < outer*n*inner || len(dst) < outer*m*inner {
		panic(fmt.Sprintf("tensor: buffers of length %d and %d too short for dims %v", len(src), len(dst), dims))
	}

	if inner == 1 {
		// last index: one (outer × n)·cᵀ product
		s := mat.NewDense(outer, n, src[:outer*n])
		d := mat.NewDense(outer, m, dst[:outer*m])
		d.Mul(s, c.T())
		return res
	}
	for o := 0; o < outer; o++ {
		s := mat.NewDense(n, inner, src[o*n*inner:(o+1)*n*inner])
		d := mat.NewDense(m, inner, dst[o*m*inner:(o+1)*m*inner])
		d.Mul(c, s)
	}
	return res
}

// Rotate4 applies the square matrix c to all four indices of the n⁴ tensor
// data, index 1 first. work must hold n⁴ values; the result ends in data.
func Rotate4(c mat.Matrix, data, work []float64, n int) {
	if n == 0 {
		return
	}
	dims := [4]int{n, n, n, n}
	ContractIndex(work, data, dims, 0, c)
	ContractIndex(data, work, dims, 1, c)
	ContractIndex(work, data, dims, 2, c)
	ContractIndex(data, work, dims, 3, c)
}

// Transform4 applies the m×n matrix c to all four indices of the n⁴ tensor
// src and returns the m⁴ result.
func Transform4(c mat.Matrix, src []float64, n int) []float64 {
	m, _ := c.Dims()
	dims := [4]int{n, n, n, n}
	size := func(d [4]int) int { return d[0] * d[1] * d[2] * d[3] }

	cur := src
	for pos := 0; pos < 4; pos++ {
		next := dims
		next[pos] = m
		out := make([]float64, size(next))
		dims = ContractIndex(out, cur, dims, pos, c)
		cur = out
	}
	return cur
}
