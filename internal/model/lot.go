// Package model defines the domain types shared across the comparison
// pipeline: auction lots, comparable listings, price statistics, verdicts
// and run records.
package model

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Lot is an auction lot as scraped from Catawiki, coerced from the raw
// dataset item at the pipeline boundary. Only the title is required; every
// other field defaults to its zero value.
type Lot struct {
	ID                int64   `json:"id,omitempty"`
	Title             string  `json:"title"`
	Subtitle          string  `json:"subtitle,omitempty"`
	URL               string  `json:"url,omitempty"`
	ImageURL          string  `json:"imageUrl,omitempty"`
	Category          string  `json:"category,omitempty"`
	Condition         string  `json:"condition,omitempty"`
	EstimatedPriceMin float64 `json:"estimatedPriceMin,omitempty"`
	EstimatedPriceMax float64 `json:"estimatedPriceMax,omitempty"`
	FinalPrice        float64 `json:"finalPrice,omitempty"`
}

// LotFromRaw coerces a raw scraped item into a Lot. A missing or empty title
// is an error; all other fields tolerate absence and mixed numeric encodings.
func LotFromRaw(raw map[string]any) (*Lot, error) {
	title := strings.TrimSpace(stringField(raw, "title"))
	if title == "" {
		return nil, eris.New("model: lot has no title")
	}

	lot := &Lot{
		Title:     title,
		Subtitle:  stringField(raw, "subtitle"),
		URL:       stringField(raw, "url"),
		ImageURL:  stringField(raw, "imageUrl"),
		Category:  stringField(raw, "category"),
		Condition: stringField(raw, "condition"),
	}
	if v, ok := floatField(raw, "id"); ok {
		lot.ID = int64(v)
	}
	if v, ok := floatField(raw, "estimatedPriceMin"); ok {
		lot.EstimatedPriceMin = v
	}
	if v, ok := floatField(raw, "estimatedPriceMax"); ok {
		lot.EstimatedPriceMax = v
	}
	if v, ok := floatField(raw, "finalPrice"); ok {
		lot.FinalPrice = v
	}
	return lot, nil
}

func stringField(raw map[string]any, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

// floatField reads a numeric field that upstream may encode as a JSON
// number, json.Number, or numeric string.
func floatField(raw map[string]any, key string) (float64, bool) {
	switch v := raw[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
