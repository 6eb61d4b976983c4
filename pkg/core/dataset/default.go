// Package dataset provides the built-in scenario set and loads alternative
// datasets and comparable-company tables from disk.
package dataset

import (
	"peer_valuation/pkg/core/market"
	"peer_valuation/pkg/core/valuation"
)

// Default returns the peer multiple comparison for Voyant's projected 2030
// revenue. The baseline EV is the DCF output, not revenue x multiple.
func Default() valuation.Dataset {
	return valuation.Dataset{
		Company:     "Voyant",
		RevenueYear: 2030,
		BaseRevenue: 608.1,
		Scenarios: []valuation.Scenario{
			{
				Label:             "Current DCF Valuation",
				ShortLabel:        "Current DCF",
				Kind:              valuation.KindBaseline,
				Multiple:          1.28,
				ReportedValuation: 776,
				Color:             "#3b82f6",
				Note:              "Conservative base case",
			},
			{
				Label:      "Silicon Photonics Multiple",
				ShortLabel: "Silicon Photonics",
				Kind:       valuation.KindPeer,
				Multiple:   5.77,
				Color:      "#8b5cf6",
			},
			{
				Label:      "AI/Computer Vision Multiple",
				ShortLabel: "AI/Computer Vision",
				Kind:       valuation.KindPeer,
				Multiple:   7.58,
				Color:      "#10b981",
			},
			{
				Label:      "Lidar Companies Multiple",
				ShortLabel: "Lidar Companies",
				Kind:       valuation.KindPeer,
				Multiple:   8.99,
				Color:      "#f59e0b",
			},
		},
		Market: &market.Spec{
			Name:     "Global LiDAR Market",
			BaseYear: 2025,
			EndYear:  2030,
			BaseSize: 3.27,
			CAGR:     0.313,
		},
		Axis: valuation.DefaultAxis,
		ReportedUpside: map[string]float64{
			"Silicon Photonics Multiple":  352,
			"AI/Computer Vision Multiple": 494,
			"Lidar Companies Multiple":    605,
		},
	}
}
