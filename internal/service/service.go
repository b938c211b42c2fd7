// Package service implements the operational rules of the shuttle engine:
// assignment, settlement, bookings, attendance, the trip lifecycle surface
// and the derived reports. Services validate requests, then run against the
// engine's snapshot view/update primitives.
package service

import "math"

// round2 rounds to two decimal places; every percentage-like figure in the
// reports uses it.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pct computes n/d×100 rounded to 2dp. Division by zero yields 0, never NaN.
func pct(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return round2(n / d * 100)
}
