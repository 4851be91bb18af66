package tally

import "math"

// Mean returns the average of values rounded to 2 decimals, or nil when
// values is empty.
func Mean(values []int) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	avg := Round(float64(sum)/float64(len(values)), 2)
	return &avg
}

// Round rounds x to the given number of decimal places, halves away from
// zero.
func Round(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(x*scale) / scale
}
