package domain

import "time"

// Pool represents a quantity pool collecting produce toward a target lot.
// Membership bookkeeping lives in the persistence layer; the core only
// reads target and current quantities to score prospective buyers.
type Pool struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name" validate:"required"`
	TargetQuantity  float64   `json:"target_quantity" validate:"gt=0"`
	CurrentQuantity float64   `json:"current_quantity" validate:"min=0"`
	TargetPrice     float64   `json:"target_price" validate:"min=0"`
	Deadline        time.Time `json:"deadline"`
}

// FillPercent returns pool fill progress in the range [0, 100].
func (p Pool) FillPercent() float64 {
	if p.TargetQuantity <= 0 {
		return 0
	}
	pct := p.CurrentQuantity / p.TargetQuantity * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// BuyerCandidate is a prospective exporter/buyer for a pooled listing.
type BuyerCandidate struct {
	Name             string  `json:"name" validate:"required"`
	Location         string  `json:"location"`
	PricePerKg       float64 `json:"price_per_kg" validate:"min=0"`
	PaymentDays      int     `json:"payment_days" validate:"min=0"`
	Reputation       float64 `json:"reputation" validate:"min=0,max=100"`
	LogisticsSupport bool    `json:"logistics_support"`
}

// ScoredBuyer pairs a candidate with its weighted match score. Score is
// rounded to 2 decimals for display; ranking is performed on the unrounded
// value before the rounding is applied.
type ScoredBuyer struct {
	BuyerCandidate
	Score float64 `json:"score"`
}
