package engine

import "math/bits"

// Aritmética u64 com checagem de overflow. Qualquer overflow vira
// ErrMathOverflow e aborta a operação inteira; nunca wraparound.

// CheckedMul multiplica a*b falhando em overflow.
func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrMathOverflow
	}
	return lo, nil
}

// CheckedAdd soma a+b falhando em overflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrMathOverflow
	}
	return sum, nil
}

// CheckedSub subtrai a-b falhando em underflow.
func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrMathOverflow
	}
	return diff, nil
}

// CheckedDiv divide a/b falhando em divisão por zero.
func CheckedDiv(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrMathOverflow
	}
	return a / b, nil
}
