package crt

// quarterSine is a 17-entry quarter-wave sine table in Q15 amplitude,
// covering angles 0..pi/2 inclusive at 16 equal steps. The 17th entry
// (the peak) exists so interpolation at the last interval can read
// index+1 without a bounds check.
var quarterSine = [17]int32{
	0, 3211, 6393, 9512, 12540, 15447, 18204, 20787,
	23170, 25330, 27245, 28898, 30274, 31363, 32138, 32610,
	32768,
}

// sincos14 returns the sine and cosine of an angle n given on a
// 14-bit unit circle (16384 == 2*pi), as signed Q15 fixed-point
// values. It is periodic in n with period 16384 and reduces any
// angle to the first quadrant via the standard sin/cos reflection
// identities before consulting the table.
func sincos14(n int32) (sin, cos int32) {
	n &= 0x3fff
	quadrant := (n >> 12) & 3
	rem := n & 0x0fff
	idx := rem >> 8
	frac := rem & 0xff

	sin0 := quarterSine[idx] + ((quarterSine[idx+1]-quarterSine[idx])*frac)>>8
	cosIdx := 16 - idx
	cos0 := quarterSine[cosIdx] + ((quarterSine[cosIdx-1]-quarterSine[cosIdx])*frac)>>8

	switch quadrant {
	case 0:
		sin, cos = sin0, cos0
	case 1:
		sin, cos = cos0, -sin0
	case 2:
		sin, cos = -sin0, -cos0
	default:
		sin, cos = -cos0, sin0
	}
	return
}

// expPowers holds e^1 .. e^4 in Q11, used to range-reduce the integer
// part of expx's argument four exponents at a time.
var expPowers = [4]int64{5568, 15134, 41135, 111817}

// expx computes e^n for n given in Q11 fixed point (EXP_ONE = 2048 ==
// 1.0). The integer part of n is range-reduced modulo 4 against the
// precomputed powers of e; the fractional part is evaluated with a
// truncated Taylor series. Negative n is handled by computing the
// positive result and reciprocating. The only caller (the IIR
// low-pass coefficient) passes a small bounded negative argument, so
// the reciprocal never overflows in practice.
func expx(n int32) int32 {
	neg := n < 0
	if neg {
		n = -n
	}

	intPart := int64(n) / ExpOne
	frac := int64(n) % ExpOne

	whole, rem := intPart/4, intPart%4
	result := int64(ExpOne)
	for ; whole > 0; whole-- {
		result = result * expPowers[3] / ExpOne
	}
	if rem > 0 {
		result = result * expPowers[rem-1] / ExpOne
	}

	fracExp := int64(ExpOne)
	term := int64(ExpOne)
	for k := int64(1); k < 32; k++ {
		term = term * frac / (k * ExpOne)
		if term == 0 {
			break
		}
		fracExp += term
	}

	result = result * fracExp / ExpOne

	if neg {
		if result == 0 {
			return 0
		}
		result = int64(ExpOne) * int64(ExpOne) / result
	}
	return int32(result)
}
