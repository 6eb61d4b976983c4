package valuation

import (
	"fmt"

	"peer_valuation/pkg/core/market"
)

// Axis fixes the chart's value domain so scenarios stay comparable across
// renders.
type Axis struct {
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step" yaml:"step"`
}

// DefaultAxis is 0..$6B in $1B steps.
var DefaultAxis = Axis{Max: 6000, Step: 1000}

// Dataset is everything a single rendering is built from. BaseRevenue is
// shared by every scenario.
type Dataset struct {
	Company     string           `json:"company" yaml:"company"`
	RevenueYear int              `json:"revenue_year" yaml:"revenue_year"`
	BaseRevenue float64          `json:"base_revenue" yaml:"base_revenue"` // $M
	Scenarios   []Scenario       `json:"scenarios" yaml:"scenarios"`
	Comps       []PeerComparable `json:"comps,omitempty" yaml:"comps"`
	CompsFile   string           `json:"comps_file,omitempty" yaml:"comps_file"` // CSV, relative to the dataset file
	Market      *market.Spec     `json:"market,omitempty" yaml:"market"`
	Axis        Axis             `json:"axis" yaml:"axis"`

	// DCF, when set, values the baseline: its enterprise value becomes the
	// baseline's ReportedValuation and, if the multiple is unset, the
	// implied EV/revenue multiple.
	DCF *DCFInput `json:"dcf,omitempty" yaml:"dcf"`

	// ReportedUpside holds literal upside percentages keyed by scenario
	// label, as printed in the source material. Only used by Reconcile.
	ReportedUpside map[string]float64 `json:"reported_upside,omitempty" yaml:"reported_upside"`
}

// Baseline returns the single baseline scenario.
func (d Dataset) Baseline() (Scenario, error) {
	var found []Scenario
	for _, s := range d.Scenarios {
		if s.IsBaseline() {
			found = append(found, s)
		}
	}
	if len(found) != 1 {
		return Scenario{}, fmt.Errorf("found %d baselines: %w", len(found), ErrBaselineCount)
	}
	return found[0], nil
}

// Resolve fills peer multiples from comps group medians, applies the default
// axis and validates the result. The receiver is not modified.
func (d Dataset) Resolve() (Dataset, error) {
	out := d
	out.Scenarios = append([]Scenario(nil), d.Scenarios...)
	if out.Axis.Max <= 0 || !finite(out.Axis.Max) {
		out.Axis = DefaultAxis
	}
	if out.Axis.Step <= 0 || !finite(out.Axis.Step) {
		out.Axis.Step = DefaultAxis.Step
	}

	if !finite(out.BaseRevenue) {
		return Dataset{}, fmt.Errorf("dataset %q base revenue: %w", d.Company, ErrNonFinite)
	}
	if out.BaseRevenue <= 0 {
		return Dataset{}, fmt.Errorf("dataset %q: %w", d.Company, ErrNonPositiveRevenue)
	}
	if _, err := out.Baseline(); err != nil {
		return Dataset{}, fmt.Errorf("dataset %q: %w", d.Company, err)
	}

	var medians map[string]GroupStats
	for i, s := range out.Scenarios {
		if s.Kind == "" {
			s.Kind = KindPeer
		}
		if s.IsBaseline() && out.DCF != nil {
			if err := applyDCF(&s, *out.DCF, out.BaseRevenue); err != nil {
				return Dataset{}, fmt.Errorf("scenario %q: %w", s.Label, err)
			}
		}
		if s.Multiple == 0 && s.Group != "" {
			if medians == nil {
				medians = GroupMedians(out.Comps)
			}
			st, ok := medians[s.Group]
			if !ok {
				return Dataset{}, fmt.Errorf("scenario %q group %q: %w", s.Label, s.Group, ErrUnknownGroup)
			}
			s.Multiple = st.Median
		}
		if !finite(s.Multiple) || !finite(s.ReportedValuation) {
			return Dataset{}, fmt.Errorf("scenario %q: %w", s.Label, ErrNonFinite)
		}
		if s.Multiple <= 0 {
			return Dataset{}, fmt.Errorf("scenario %q: %w", s.Label, ErrNonPositiveMultiple)
		}
		out.Scenarios[i] = s
	}

	for label, up := range out.ReportedUpside {
		if !finite(up) {
			return Dataset{}, fmt.Errorf("reported upside %q: %w", label, ErrNonFinite)
		}
	}

	if out.Market != nil {
		if err := out.Market.Validate(); err != nil {
			return Dataset{}, err
		}
	}
	return out, nil
}

func applyDCF(s *Scenario, in DCFInput, revenue float64) error {
	res, err := CalculateDCF(in)
	if err != nil {
		return err
	}
	if s.ReportedValuation == 0 {
		s.ReportedValuation = res.EnterpriseValue
	}
	if s.Multiple == 0 {
		mult, err := ImpliedMultiple(s.ReportedValuation, revenue)
		if err != nil {
			return err
		}
		s.Multiple = mult
	}
	return nil
}
