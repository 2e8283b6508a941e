package util

// Avg calculates the average of all values in the given array
func Avg(values []float64) float64 {
	if len(values) <= 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < len(values); i++ {
		sum += values[i]
	}
	return sum / (float64(len(values)))
}
