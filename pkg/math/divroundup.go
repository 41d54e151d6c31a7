package math

func DivRoundUp[T Integer](a, b T) T {
	if a%b == 0 {
		return a / b
	}
	return a/b + 1
}

// RoundDown returns the largest multiple of `unit` that is <= `a`.
func RoundDown[T Integer](a, unit T) T {
	return a - a%unit
}

// RoundUp returns the smallest multiple of `unit` that is >= `a`.
func RoundUp[T Integer](a, unit T) T {
	return DivRoundUp(a, unit) * unit
}
