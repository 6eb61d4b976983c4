package valuation

import (
	"errors"
	"fmt"
)

var ErrInvalidDCF = errors.New("invalid DCF inputs")

// DCFInput values the baseline from projected unlevered free cash flows.
// When Capital is set the discount rate comes from CalculateWACC and WACC
// is ignored.
type DCFInput struct {
	FreeCashFlows  []float64  `json:"free_cash_flows" yaml:"free_cash_flows"` // $M, one per projection year
	WACC           float64    `json:"wacc,omitempty" yaml:"wacc"`
	Capital        *WACCInput `json:"capital,omitempty" yaml:"capital"`
	TerminalGrowth float64    `json:"terminal_growth" yaml:"terminal_growth"` // e.g. 0.025
}

// DCFResult holds the valuation outputs
type DCFResult struct {
	EnterpriseValue float64
	PV_FCF          float64
	PV_Terminal     float64
	TerminalValue   float64
	WACC            float64
}

// Rate returns the discount rate the input resolves to.
func (in DCFInput) Rate() float64 {
	if in.Capital != nil {
		return CalculateWACC(*in.Capital).WACC
	}
	return in.WACC
}

// CalculateDCF performs a standard 2-stage DCF analysis: explicit cash
// flows discounted at WACC plus a Gordon growth terminal value.
func CalculateDCF(input DCFInput) (DCFResult, error) {
	if len(input.FreeCashFlows) == 0 {
		return DCFResult{}, fmt.Errorf("no free cash flows: %w", ErrInvalidDCF)
	}
	wacc := input.Rate()
	if wacc <= input.TerminalGrowth {
		return DCFResult{}, fmt.Errorf("wacc %.4f must exceed terminal growth %.4f: %w", wacc, input.TerminalGrowth, ErrInvalidDCF)
	}

	var pvFCF float64
	discount := 1.0
	for _, fcf := range input.FreeCashFlows {
		discount /= 1 + wacc
		pvFCF += fcf * discount
	}

	// TV = FCF_n * (1+g) / (WACC - g), discounted from year n
	last := input.FreeCashFlows[len(input.FreeCashFlows)-1]
	tv := last * (1 + input.TerminalGrowth) / (wacc - input.TerminalGrowth)
	pvTerminal := tv * discount

	if ev := pvFCF + pvTerminal; !finite(ev) {
		return DCFResult{}, fmt.Errorf("enterprise value %v: %w", ev, ErrInvalidDCF)
	}
	return DCFResult{
		EnterpriseValue: pvFCF + pvTerminal,
		PV_FCF:          pvFCF,
		PV_Terminal:     pvTerminal,
		TerminalValue:   tv,
		WACC:            wacc,
	}, nil
}
