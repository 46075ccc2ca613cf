package aad_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/aad/internal/aad"
)

type celsius float64

func fmtReal(r aad.Real) string { return fmt.Sprintf("%.2f", r) }

func TestPromote_ValueAndDerivative(t *testing.T) {
	assert.Equal(t, 3.0, aad.Value(3))
	assert.Equal(t, 2.5, aad.Value(float32(2.5)))
	assert.Equal(t, 7.0, aad.Value(uint8(7)))
	assert.Equal(t, 21.5, aad.Value(celsius(21.5)))
	assert.Equal(t, 0.0, aad.Derivative(4.2))
	assert.Equal(t, 0.0, aad.Derivative(int64(9)))

	tape := aad.NewTape()
	x := aad.NewReal(1.5)
	require.NoError(t, tape.RegisterInput(&x))
	tape.NewRecording()
	e := aad.Mul(x, aad.Promote(4))
	assert.Equal(t, 6.0, aad.Value(e))
	assert.Equal(t, 1.5, aad.Value(x))

	assert.Panics(t, func() { aad.Derivative(e) }, "unmaterialised expression")
	y := e.Real()
	aad.SetDerivative(y, 1)
	require.NoError(t, tape.ComputeAdjoints())
	assert.Equal(t, 4.0, aad.Derivative(x))
	assert.Equal(t, 1.0, aad.Derivative(e))
}

func TestPromote_Casts(t *testing.T) {
	tape := aad.NewTape()
	x := aad.NewReal(2.7)
	require.NoError(t, tape.RegisterInput(&x))
	tape.NewRecording()

	assert.Equal(t, 2, aad.NumericCast[int](x))
	assert.Equal(t, float32(2.7), aad.NumericCast[float32](x))
	assert.Equal(t, int64(5), aad.NumericCast[int64](aad.Add(x, aad.Float(2.4))))

	r := aad.ToReal(aad.Float(3))
	assert.False(t, r.IsActive())
	assert.Equal(t, x, aad.ToReal(x))
	assert.True(t, aad.ToReal(aad.Sin(x)).IsActive())
}

func TestPromote_Traits(t *testing.T) {
	assert.Equal(t, aad.TypeTraits{Arithmetic: true, FloatingPoint: true}, aad.Traits[aad.Real]())
	assert.Equal(t, aad.TypeTraits{Arithmetic: true, FloatingPoint: true}, aad.Traits[*aad.Expr]())
	assert.Equal(t, aad.TypeTraits{Arithmetic: true, FloatingPoint: true, POD: true}, aad.Traits[float64]())
	assert.Equal(t, aad.TypeTraits{Arithmetic: true, POD: true}, aad.Traits[int32]())
	assert.Equal(t, aad.TypeTraits{}, aad.Traits[string]())

	assert.True(t, aad.IsConvertible[float64, aad.Real]())
	assert.True(t, aad.IsConvertible[int, aad.Real]())
	assert.True(t, aad.IsConvertible[*aad.Expr, aad.Real]())
	assert.True(t, aad.IsConvertible[aad.Real, aad.Real]())
	assert.False(t, aad.IsConvertible[aad.Real, float64](), "derivatives would be lost")
	assert.False(t, aad.IsConvertible[string, aad.Real]())
	assert.True(t, aad.IsConvertible[int, float64]())
}

func TestPromote_Comparisons(t *testing.T) {
	a, b := aad.NewReal(1), aad.NewReal(2)
	assert.True(t, a.Less(b))
	assert.True(t, a.LessEqual(aad.Float(1)))
	assert.True(t, b.Greater(a))
	assert.True(t, b.GreaterEqual(aad.Mul(a, aad.Float(2))))
	assert.True(t, a.Equal(aad.Float(1)))
	assert.True(t, a.NotEqual(b))
	assert.Equal(t, -1, aad.Cmp(a, b))
	assert.Equal(t, 1, aad.Cmp(b, a))
	assert.Equal(t, 0, aad.Cmp(aad.Float(math.NaN()), a))

	nan := aad.NewReal(math.NaN())
	assert.True(t, aad.IsNaN(nan))
	assert.False(t, aad.IsFinite(nan))
	assert.True(t, aad.IsInf(aad.Float(math.Inf(-1)), -1))
	assert.True(t, aad.Signbit(aad.Float(math.Copysign(0, -1))))
	assert.Equal(t, "1.5", aad.NewReal(1.5).String())
	assert.Equal(t, "1.50", fmtReal(aad.NewReal(1.5)))
}

func TestRounding_ReturnsPlainNumbers(t *testing.T) {
	tape := aad.NewTape()
	x := aad.NewReal(-2.5)
	require.NoError(t, tape.RegisterInput(&x))
	tape.NewRecording()

	assert.Equal(t, -2.0, aad.Trunc(x))
	assert.Equal(t, -3.0, aad.Floor(x))
	assert.Equal(t, -2.0, aad.Ceil(x))
	assert.Equal(t, -3.0, aad.Round(x))
	assert.Equal(t, -2.0, aad.RoundToEven(x))
	assert.Equal(t, -2, aad.ITrunc(x))
	assert.Equal(t, -3, aad.IRound(x))
	assert.Equal(t, int64(-2), aad.LLTrunc(x))
	assert.Equal(t, int64(-3), aad.LLRound(x))
	assert.Equal(t, 0, tape.NumStatements())

	// The rounded value enters as a constant; only the direct path carries a derivative.
	y := x.Mul(aad.Float(aad.Floor(x)))
	aad.SetDerivative(y, 1)
	require.NoError(t, tape.ComputeAdjoints())
	assert.Equal(t, -3.0, aad.Derivative(x))
}

func TestRounding_FPClassify(t *testing.T) {
	tests := []struct {
		v    float64
		want aad.FPClass
	}{
		{0, aad.FPZero},
		{math.Copysign(0, -1), aad.FPZero},
		{5e-324, aad.FPSubnormal},
		{1.5, aad.FPNormal},
		{math.Inf(1), aad.FPInfinite},
		{math.NaN(), aad.FPNaN},
	}
	for _, tt := range tests {
		got := aad.FPClassify(aad.NewReal(tt.v))
		assert.Equal(t, tt.want, got, "%v", tt.v)
		assert.NotEqual(t, "unknown", got.String())
	}
}
