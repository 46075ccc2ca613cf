package aad

import "math"

// Rounding is piecewise constant, so these functions return plain numbers and
// drop the tape binding instead of producing a zero-derivative active value.

// Trunc returns the integer part of x.
func Trunc(x Operand) float64 { return math.Trunc(x.Value()) }

// Floor returns the greatest integer value less than or equal to x.
func Floor(x Operand) float64 { return math.Floor(x.Value()) }

// Ceil returns the least integer value greater than or equal to x.
func Ceil(x Operand) float64 { return math.Ceil(x.Value()) }

// Round returns the nearest integer, rounding half away from zero.
func Round(x Operand) float64 { return math.Round(x.Value()) }

// RoundToEven returns the nearest integer, rounding ties to even.
func RoundToEven(x Operand) float64 { return math.RoundToEven(x.Value()) }

// ITrunc returns the integer part of x as an int.
func ITrunc(x Operand) int { return int(math.Trunc(x.Value())) }

// IRound returns x rounded half away from zero as an int.
func IRound(x Operand) int { return int(math.Round(x.Value())) }

// LLTrunc returns the integer part of x as an int64.
func LLTrunc(x Operand) int64 { return int64(math.Trunc(x.Value())) }

// LLRound returns x rounded half away from zero as an int64.
func LLRound(x Operand) int64 { return int64(math.Round(x.Value())) }

// FPClass is the floating-point category of a primal value.
type FPClass uint8

// Floating-point categories.
const (
	FPZero FPClass = iota
	FPSubnormal
	FPNormal
	FPInfinite
	FPNaN
)

func (c FPClass) String() string {
	switch c {
	case FPZero:
		return "zero"
	case FPSubnormal:
		return "subnormal"
	case FPNormal:
		return "normal"
	case FPInfinite:
		return "infinite"
	case FPNaN:
		return "nan"
	}
	return "unknown"
}

// FPClassify classifies the primal value of x.
func FPClassify(x Operand) FPClass {
	v := x.Value()
	switch {
	case math.IsNaN(v):
		return FPNaN
	case math.IsInf(v, 0):
		return FPInfinite
	case v == 0:
		return FPZero
	case math.Abs(v) < 0x1p-1022:
		return FPSubnormal
	}
	return FPNormal
}
