package aad_test

import (
	"fmt"

	"github.com/born-ml/aad/aad"
)

func ExampleTape() {
	tape := aad.NewTape()
	x, y := aad.NewReal(3), aad.NewReal(4)
	_ = tape.RegisterInput(&x)
	_ = tape.RegisterInput(&y)
	tape.NewRecording()

	z := aad.Add(aad.Mul(x, x), aad.Mul(y, y)).Real()
	aad.SetDerivative(z, 1)
	_ = tape.ComputeAdjoints()

	fmt.Println(z, aad.Derivative(x), aad.Derivative(y))
	// Output: 25 6 8
}

func ExampleTape_NewRecording() {
	tape := aad.NewTape()
	x := aad.NewReal(0)
	_ = tape.RegisterInput(&x)

	for _, v := range []float64{1, 2, 3} {
		x.SetValue(v)
		tape.NewRecording()
		y := x.PowF(3)
		aad.SetDerivative(y, 1)
		_ = tape.ComputeAdjoints()
		fmt.Println(v, aad.Derivative(x))
	}
	// Output:
	// 1 3
	// 2 12
	// 3 27
}
