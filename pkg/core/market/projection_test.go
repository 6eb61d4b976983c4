package market

import (
	"math"
	"testing"
)

func TestProject_LidarMarket(t *testing.T) {
	spec := Spec{Name: "Global LiDAR", BaseYear: 2025, EndYear: 2030, BaseSize: 3.27, CAGR: 0.313}
	points, err := Project(spec)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	if points[0].Year != 2025 || points[0].Size != 3.27 {
		t.Errorf("first point = %+v", points[0])
	}
	want := 3.27 * math.Pow(1.313, 5)
	if last := points[5]; last.Year != 2030 || math.Abs(last.Size-want) > 1e-9 {
		t.Errorf("last point = %+v, want size %v", last, want)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Size <= points[i-1].Size {
			t.Errorf("projection must grow: %+v", points)
		}
	}
}

func TestProject_Invalid(t *testing.T) {
	bad := []Spec{
		{Name: "zero", BaseYear: 2025, EndYear: 2030, BaseSize: 0, CAGR: 0.1},
		{Name: "reversed", BaseYear: 2030, EndYear: 2025, BaseSize: 1, CAGR: 0.1},
		{Name: "collapse", BaseYear: 2025, EndYear: 2030, BaseSize: 1, CAGR: -1},
		{Name: "single year", BaseYear: 2030, EndYear: 2030, BaseSize: 1, CAGR: 0.1},
		{Name: "nan size", BaseYear: 2025, EndYear: 2030, BaseSize: math.NaN(), CAGR: 0.1},
		{Name: "inf cagr", BaseYear: 2025, EndYear: 2030, BaseSize: 1, CAGR: math.Inf(1)},
	}
	for _, s := range bad {
		if _, err := Project(s); err == nil {
			t.Errorf("%s: expected error", s.Name)
		}
	}
}

func TestShare(t *testing.T) {
	// $608M of a $12.8B market
	if got := Share(608.1, 12.8); math.Abs(got-4.7507812) > 1e-6 {
		t.Errorf("Share = %v", got)
	}
	if Share(100, 0) != 0 {
		t.Errorf("Share with empty market should be 0")
	}
}

func TestSizeIn(t *testing.T) {
	points, err := Project(Spec{Name: "LiDAR", BaseYear: 2025, EndYear: 2030, BaseSize: 3.27, CAGR: 0.313})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	size, ok := SizeIn(points, 2030)
	if !ok || math.Abs(size-3.27*math.Pow(1.313, 5)) > 1e-9 {
		t.Errorf("SizeIn(2030) = %v, %v", size, ok)
	}
	if _, ok := SizeIn(points, 2031); ok {
		t.Errorf("2031 is outside the projection")
	}
}
