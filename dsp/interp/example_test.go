package interp_test

import (
	"fmt"

	"github.com/cwbudde/algo-rescale/dsp/interp"
)

func ExampleLinear_EvalAll() {
	l, _ := interp.NewLinear([]float64{3600, 4600, 5100}, []float64{2, 3, 5})
	y, _ := l.EvalAll([]float64{3600, 4100, 4850}, nil)
	fmt.Println(y)
	// Output:
	// [2 2.5 4]
}
