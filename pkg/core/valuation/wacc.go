package valuation

// WACCInput parameters for calculating Cost of Capital
type WACCInput struct {
	UnleveredBeta     float64 `json:"unlevered_beta" yaml:"unlevered_beta"`
	RiskFreeRate      float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	MarketRiskPremium float64 `json:"market_risk_premium" yaml:"market_risk_premium"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt" yaml:"pre_tax_cost_of_debt"`
	TaxRate           float64 `json:"tax_rate" yaml:"tax_rate"`
	DebtToEquityRatio float64 `json:"debt_to_equity" yaml:"debt_to_equity"` // Target Leverage (D/E)
}

// WACCResult holds the calculated rates
type WACCResult struct {
	LeveredBeta  float64
	CostOfEquity float64
	CostOfDebt   float64 // After-tax
	WACC         float64
	WeightDebt   float64
	WeightEquity float64
}

// CalculateWACC computes the Weighted Average Cost of Capital using CAPM and Hamada Equation
func CalculateWACC(input WACCInput) WACCResult {
	// BetaL = BetaU * (1 + (1-t)*(D/E))
	leveredBeta := input.UnleveredBeta * (1 + (1-input.TaxRate)*input.DebtToEquityRatio)

	// Ke = Rf + BetaL * ERP
	ke := input.RiskFreeRate + leveredBeta*input.MarketRiskPremium

	// Kd = PreTaxKd * (1 - t)
	kd := input.PreTaxCostOfDebt * (1 - input.TaxRate)

	// D = xE, so Wd = x/(1+x) and We = 1/(1+x)
	wd := input.DebtToEquityRatio / (1 + input.DebtToEquityRatio)
	we := 1.0 / (1 + input.DebtToEquityRatio)

	return WACCResult{
		LeveredBeta:  leveredBeta,
		CostOfEquity: ke,
		CostOfDebt:   kd,
		WACC:         ke*we + kd*wd,
		WeightDebt:   wd,
		WeightEquity: we,
	}
}
