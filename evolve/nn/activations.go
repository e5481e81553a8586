package nn

import "math"

// Sigmoid is the logistic function 1 / (1 + e^-x).
// Large negative inputs saturate to 0 and large positive inputs to 1 through
// ordinary floating point overflow and underflow of e^-x.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
