package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Plan represents an offered internet plan. Prices are kept as the
// comma-formatted strings shown on the marketing site ("3,500").
type Plan struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Speed string `json:"speed"`
}

// OfferedPlans is the catalog of plans a customer can sign up for.
// Invoice plan fields are validated against this set.
var OfferedPlans = []Plan{
	{Name: "Lite", Price: "1,500", Speed: "5 Mbps"},
	{Name: "Basic", Price: "2,000", Speed: "10 Mbps"},
	{Name: "Standard", Price: "2,500", Speed: "15 Mbps"},
	{Name: "Jumbo", Price: "3,500", Speed: "20 Mbps"},
	{Name: "Turbo", Price: "5,000", Speed: "40 Mbps"},
	{Name: "Biashara", Price: "7,500", Speed: "60 Mbps"},
}

// FindPlan looks up an offered plan by name.
func FindPlan(name string) (Plan, bool) {
	for _, p := range OfferedPlans {
		if p.Name == name {
			return p, true
		}
	}
	return Plan{}, false
}

// ParsePrice converts a comma-formatted price string ("3,500") into an
// integer amount in shillings.
func ParsePrice(price string) (int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(price), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty price")
	}
	amount, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", price, err)
	}
	if amount < 0 {
		return 0, fmt.Errorf("negative price %q", price)
	}
	return amount, nil
}
