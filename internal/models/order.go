package models

import "fmt"

// Order identifies one ARIMA model configuration: the autoregressive
// order P, the differencing order D, and the moving-average order Q.
type Order struct {
	P int `json:"p" yaml:"p"`
	D int `json:"d" yaml:"d"`
	Q int `json:"q" yaml:"q"`
}

// String formats the order in the conventional (p,d,q) notation.
func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// Valid reports whether all three components are non-negative.
func (o Order) Valid() bool {
	return o.P >= 0 && o.D >= 0 && o.Q >= 0
}

// Candidate is one entry of the search grid. Index is the position in
// the enumeration order (p outermost, d middle, q innermost) and breaks
// ties between candidates with equal scores.
type Candidate struct {
	Order Order
	Index int
}
