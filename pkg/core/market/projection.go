// Package market projects addressable market size forward at a constant
// compound annual growth rate.
package market

import (
	"fmt"
	"math"
)

// Spec describes a market sized in $B at BaseYear growing at CAGR.
type Spec struct {
	Name     string  `json:"name" yaml:"name"`
	BaseYear int     `json:"base_year" yaml:"base_year"`
	EndYear  int     `json:"end_year" yaml:"end_year"`
	BaseSize float64 `json:"base_size" yaml:"base_size"` // $B
	CAGR     float64 `json:"cagr" yaml:"cagr"`           // 0.313 = 31.3%
}

// Point is the projected market size for one year.
type Point struct {
	Year int     `json:"year"`
	Size float64 `json:"size"` // $B
}

// Validate checks that the spec describes a positive projection spanning at
// least two years, the minimum the market chart can draw.
func (s Spec) Validate() error {
	if math.IsNaN(s.BaseSize) || math.IsInf(s.BaseSize, 0) || math.IsNaN(s.CAGR) || math.IsInf(s.CAGR, 0) {
		return fmt.Errorf("market %q: base size and CAGR must be finite", s.Name)
	}
	if s.BaseSize <= 0 {
		return fmt.Errorf("market %q: base size must be positive", s.Name)
	}
	if s.EndYear <= s.BaseYear {
		return fmt.Errorf("market %q: end year %d must be after base year %d", s.Name, s.EndYear, s.BaseYear)
	}
	if s.CAGR <= -1 {
		return fmt.Errorf("market %q: CAGR %.3f would erase the market", s.Name, s.CAGR)
	}
	return nil
}

// Project returns size = base * (1 + cagr)^(year - baseYear) for every year
// from BaseYear through EndYear inclusive.
func Project(s Spec) ([]Point, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	points := make([]Point, 0, s.EndYear-s.BaseYear+1)
	for y := s.BaseYear; y <= s.EndYear; y++ {
		points = append(points, Point{
			Year: y,
			Size: s.BaseSize * math.Pow(1+s.CAGR, float64(y-s.BaseYear)),
		})
	}
	return points, nil
}

// SizeIn returns the projected size for year and whether year is covered.
func SizeIn(points []Point, year int) (float64, bool) {
	for _, p := range points {
		if p.Year == year {
			return p.Size, true
		}
	}
	return 0, false
}

// Share returns revenue ($M) as a percentage of market size ($B).
func Share(revenueM, marketB float64) float64 {
	if marketB <= 0 {
		return 0
	}
	return revenueM / (marketB * 1000) * 100
}
