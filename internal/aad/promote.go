package aad

import "reflect"

// Numeric is the set of plain Go number types.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Number is anything Value and Derivative accept: plain numbers and active ones.
type Number interface {
	Numeric | Real | *Expr
}

// Promote turns a plain number into an Operand. Combining it with a Real or an
// *Expr yields a Real or an *Expr, never a float64.
func Promote[T Numeric](x T) Float {
	return Float(float64(x))
}

// Value returns the primal of x; plain numbers are returned as float64.
func Value[T Number](x T) float64 {
	switch v := any(x).(type) {
	case Real:
		return v.val
	case *Expr:
		return v.val
	case Float:
		return float64(v)
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return numericValue(reflect.ValueOf(x))
}

func numericValue(rv reflect.Value) float64 {
	switch {
	case rv.CanInt():
		return float64(rv.Int())
	case rv.CanUint():
		return float64(rv.Uint())
	case rv.CanFloat():
		return rv.Float()
	}
	return 0
}

// Derivative returns the adjoint of x after a sweep. Plain numbers have
// derivative 0. An unregistered, stale or closed-tape value panics with a *TapeError.
func Derivative[T Number](x T) float64 {
	switch v := any(x).(type) {
	case Real:
		return mustDerivative(v)
	case *Expr:
		if v == nil || v.res == nil {
			panic(tapeError("derivative", nil, -1, ErrNotRegistered))
		}
		return mustDerivative(*v.res)
	}
	return 0
}

func mustDerivative(x Real) float64 {
	if x.tape == nil {
		panic(tapeError("derivative", nil, -1, ErrNotRegistered))
	}
	d, err := x.tape.Derivative(x)
	if err != nil {
		panic(err)
	}
	return d
}

// SetDerivative seeds the adjoint of x on its own tape. It panics with a
// *TapeError if x is not usable.
func SetDerivative(x Real, d float64) {
	if x.tape == nil {
		panic(tapeError("set derivative", nil, -1, ErrNotRegistered))
	}
	if err := x.tape.SetDerivative(x, d); err != nil {
		panic(err)
	}
}

// NumericCast extracts the primal of x converted to T. It is the explicit way
// to leave the active domain, e.g. to index a table or count steps.
func NumericCast[T Numeric](x Operand) T {
	return T(x.Value())
}

// ToReal converts any operand to a Real. Expressions are materialised and
// plain numbers become constants.
func ToReal(x Operand) Real {
	switch v := x.(type) {
	case Real:
		return v
	case *Expr:
		return v.Real()
	}
	return Real{val: x.Value()}
}

// TypeTraits classifies a type the way generic numeric code asks about it.
type TypeTraits struct {
	Arithmetic    bool
	FloatingPoint bool
	POD           bool
}

var (
	realType = reflect.TypeOf((*Real)(nil)).Elem()
	exprType = reflect.TypeOf((**Expr)(nil)).Elem()
)

// Traits classifies T. Real and *Expr are arithmetic and floating-point like
// but not plain data.
func Traits[T any]() TypeTraits {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	switch {
	case rt == realType || rt == exprType:
		return TypeTraits{Arithmetic: true, FloatingPoint: true}
	case isFloatKind(rt.Kind()):
		return TypeTraits{Arithmetic: true, FloatingPoint: true, POD: true}
	case isIntKind(rt.Kind()):
		return TypeTraits{Arithmetic: true, POD: true}
	}
	return TypeTraits{}
}

// IsConvertible reports whether a From can become a To without losing
// derivative information. Real converts only to itself; *Expr converts to Real;
// plain numbers convert to each other and to Real.
func IsConvertible[From, To any]() bool {
	from, to := reflect.TypeOf((*From)(nil)).Elem(), reflect.TypeOf((*To)(nil)).Elem()
	switch {
	case from == realType:
		return to == realType
	case from == exprType:
		return to == realType || to == exprType
	case isNumericKind(from.Kind()) && to == realType:
		return true
	case to == realType || to == exprType:
		return false
	}
	return from.ConvertibleTo(to)
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumericKind(k reflect.Kind) bool {
	return isFloatKind(k) || isIntKind(k)
}
