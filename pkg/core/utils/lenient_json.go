package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes hand-edited JSON: unquoted keys, single quotes,
// trailing commas, comments and unclosed brackets.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ParseHJSON converts Hjson to standard JSON so it can be decoded with the
// json struct tags.
func ParseHJSON(data string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(data), &result); err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	return string(out), nil
}

// SmartParse decodes input into v trying, in order, strict JSON, repaired
// JSON and Hjson. It returns the JSON text that finally decoded.
func SmartParse(input string, v interface{}) (string, error) {
	if err := json.Unmarshal([]byte(input), v); err == nil {
		return input, nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return repaired, nil
		}
	}

	if converted, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(converted), v); err == nil {
			return converted, nil
		}
	}

	return "", fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed for input")
}
