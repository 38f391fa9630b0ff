// Package people generates synthetic person records for the demo pages.
package people

// Person is one generated record. Values are immutable once generated.
type Person struct {
	ID     string
	Name   string
	Email  string
	Avatar string
	Spend  float64
}
