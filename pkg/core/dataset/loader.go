package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"peer_valuation/pkg/core/utils"
	"peer_valuation/pkg/core/valuation"
)

var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Load reads a dataset file. The format follows the extension: .yaml/.yml,
// or .json/.hjson which are parsed leniently (repaired JSON, then Hjson).
// When the dataset names a CompsFile, that CSV (resolved relative to the
// dataset's directory) is appended to the inline comps.
func Load(path string) (valuation.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return valuation.Dataset{}, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	var ds valuation.Dataset
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return valuation.Dataset{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".json", ".hjson":
		if _, err := utils.SmartParse(string(data), &ds); err != nil {
			return valuation.Dataset{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return valuation.Dataset{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	if ds.CompsFile != "" {
		compsPath := ds.CompsFile
		if !filepath.IsAbs(compsPath) {
			compsPath = filepath.Join(filepath.Dir(path), compsPath)
		}
		comps, err := LoadComps(compsPath)
		if err != nil {
			return valuation.Dataset{}, err
		}
		ds.Comps = append(ds.Comps, comps...)
	}

	fmt.Printf("[DATASET] Loaded %q from %s (%d scenarios, %d comps)\n", ds.Company, path, len(ds.Scenarios), len(ds.Comps))
	return ds, nil
}

// LoadComps reads a comparable-companies CSV file. See ParseComps.
func LoadComps(path string) ([]valuation.PeerComparable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open comps %s: %w", path, err)
	}
	defer f.Close()
	return ParseComps(f)
}

// ParseComps reads rows of Company, Group and EV/Revenue. Columns are located
// by header name. Rows without a company, subtotal rows ("Median",
// "Average") and rows whose multiple is not a finite number (e.g. "NM",
// "inf") are skipped.
func ParseComps(r io.Reader) ([]valuation.PeerComparable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read comps header: %w", err)
	}
	nameCol, groupCol, multCol := -1, -1, -1
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		switch {
		case key == "company" || key == "name":
			nameCol = i
		case key == "group" || key == "peer group":
			groupCol = i
		case strings.HasPrefix(key, "ev/revenue"):
			multCol = i
		}
	}
	if nameCol < 0 || groupCol < 0 || multCol < 0 {
		return nil, fmt.Errorf("comps header %v: need Company, Group and EV/Revenue columns", header)
	}

	var comps []valuation.PeerComparable
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read comps row: %w", err)
		}
		if len(rec) <= multCol || len(rec) <= nameCol || len(rec) <= groupCol {
			continue
		}
		name := strings.TrimSpace(rec[nameCol])
		if name == "" || isSubtotal(name) {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimSpace(rec[multCol]), "x")
		mult, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(mult) || math.IsInf(mult, 0) {
			continue
		}
		comps = append(comps, valuation.PeerComparable{
			Name:      name,
			Group:     strings.TrimSpace(rec[groupCol]),
			EVRevenue: mult,
		})
	}
	return comps, nil
}

func isSubtotal(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "median") || strings.Contains(lower, "average") || strings.Contains(lower, "mean")
}
