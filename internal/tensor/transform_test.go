package tensor

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func naiveTransform(c *mat.Dense, src []float64, n int) []float64 {
	m, _ := c.Dims()
	res := make([]float64, m*m*m*m)
	for a := 0; a < m; a++ {
		for b := 0; b < m; b++ {
			for cc := 0; cc < m; cc++ {
				for d := 0; d < m; d++ {
					v := 0.0
					for i := 0; i < n; i++ {
						for j := 0; j < n; j++ {
							for k := 0; k < n; k++ {
								for l := 0; l < n; l++ {
									v += c.At(a, i) * c.At(b, j) * c.At(cc, k) * c.At(d, l) * src[Index4(n, i, j, k, l)]
								}
							}
						}
					}
					res[Index4(m, a, b, cc, d)] = v
				}
			}
		}
	}
	return res
}

func randomData(rnd *rand.Rand, size int) []float64 {
	res := make([]float64, size)
	for i := range res {
		res[i] = rnd.Float64() - 0.5
	}
	return res
}

func TestTransform4MatchesNaive(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	const n, m = 4, 3
	c := mat.NewDense(m, n, randomData(rnd, m*n))
	src := randomData(rnd, n*n*n*n)

	got := Transform4(c, src, n)
	want := naiveTransform(c, src, n)
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Transform4 mismatch (-want +got):\n%s", diff)
	}
}

func TestRotate4InPlace(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	const n = 3
	c := mat.NewDense(n, n, randomData(rnd, n*n))
	data := randomData(rnd, n*n*n*n)
	want := naiveTransform(c, data, n)

	Rotate4(c, data, make([]float64, len(data)), n)
	if diff := cmp.Diff(want, data, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Rotate4 mismatch (-want +got):\n%s", diff)
	}
}

func TestContractIndexRejectsWrongShape(t *testing.T) {
	assert.Panics(t, func() {
		ContractIndex(make([]float64, 16), make([]float64, 16), [4]int{2, 2, 2, 2}, 1, mat.NewDense(2, 3, nil))
	})
}
