// Command calc-engine derives valuation metrics from a JSON dataset passed
// on the command line or stdin, for callers that only need the numbers.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"peer_valuation/pkg/core/utils"
	"peer_valuation/pkg/core/valuation"
)

func main() {
	mode := flag.String("mode", "calculate", "Mode: check or calculate")
	dataStr := flag.String("data", "", "JSON dataset payload; read from stdin when empty")
	flag.Parse()

	payload := *dataStr
	if payload == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil || len(b) == 0 {
			fmt.Println("Error: No data provided")
			os.Exit(1)
		}
		payload = string(b)
	}

	os.Exit(run(*mode, payload, os.Stdout))
}

// run returns the process exit code.
func run(mode, payload string, w io.Writer) int {
	var ds valuation.Dataset
	if _, err := utils.SmartParse(payload, &ds); err != nil {
		fmt.Fprintf(w, "Error unmarshaling data: %v\n", err)
		return 1
	}
	m, err := valuation.Derive(ds)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	switch mode {
	case "check":
		return runChecks(m, w)
	case "calculate":
		return runCalculations(m, w)
	default:
		fmt.Fprintf(w, "Unknown mode: %s\n", mode)
		return 2
	}
}

func runChecks(m *valuation.Metrics, w io.Writer) int {
	findings := valuation.Reconcile(m)
	if len(findings) == 0 {
		fmt.Fprintln(w, "Success: reported figures match derived figures")
		return 0
	}
	for _, f := range findings {
		fmt.Fprintf(w, "Error: %s\n", f.Message)
	}
	return 1
}

func runCalculations(m *valuation.Metrics, w io.Writer) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}
	return 0
}
