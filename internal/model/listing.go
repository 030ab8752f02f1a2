package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexPrice tolerates prices that the research collaborator may emit as a
// JSON number, a numeric string, or null. Unparsable values decode as
// invalid rather than erroring.
type FlexPrice struct {
	Value float64
	Valid bool
}

// Float64 returns the parsed price and whether it is a finite number.
func (p FlexPrice) Float64() (float64, bool) {
	return p.Value, p.Valid
}

func (p *FlexPrice) UnmarshalJSON(data []byte) error {
	p.Value, p.Valid = 0, false

	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		p.Value, p.Valid = f, true
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	p.Value, p.Valid = f, true
	return nil
}

func (p FlexPrice) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// ResearchListing is a comparable listing extracted by the research
// collaborator from the allowed domains. Any field may be missing.
type ResearchListing struct {
	Title     string    `json:"title"`
	Price     FlexPrice `json:"price"`
	Currency  string    `json:"currency,omitempty"`
	Condition string    `json:"condition,omitempty"`
	URL       string    `json:"url,omitempty"`
}
