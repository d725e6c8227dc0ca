package domain

// CalculationRequest asks for the price of an offering under concrete
// circumstances. Quantity defaults to 1; Date (YYYY-MM-DD), Time (HH:MM),
// CustomerSegment and VariantID are optional.
type CalculationRequest struct {
	OfferingID      string `json:"offering_id"`
	Quantity        int    `json:"quantity"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	CustomerSegment string `json:"customer_segment"`
	VariantID       string `json:"variant_id"`
}

// AppliedRule records one rule's net effect on the running price.
type AppliedRule struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PricingType  string `json:"pricing_type"`
	ModifierType string `json:"modifier_type,omitempty"`
	// DeltaCents is newPrice - priceBeforeThisRule: negative for a
	// discount, positive for a surcharge.
	DeltaCents int64 `json:"delta_cents"`
}

// Breakdown decomposes the final price into base, discounts and surcharges.
type Breakdown struct {
	BaseCents       int64 `json:"base_cents"`
	DiscountsCents  int64 `json:"discounts_cents"`
	SurchargesCents int64 `json:"surcharges_cents"`
	TotalCents      int64 `json:"total_cents"`
}

// CalculationResult is the composed price. FinalPriceCents is never negative.
type CalculationResult struct {
	OfferingID      string        `json:"offering_id"`
	Quantity        int           `json:"quantity"`
	Currency        string        `json:"currency"`
	BasePriceCents  int64         `json:"base_price_cents"`
	FinalPriceCents int64         `json:"final_price_cents"`
	AppliedRules    []AppliedRule `json:"applied_rules"`
	Breakdown       Breakdown     `json:"breakdown"`
}
