package store

// ItemInput is one requested line of an order placement.
type ItemInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// ValidateItems rejects empty item lists and non-positive quantities.
func ValidateItems(items []ItemInput) error {
	if len(items) == 0 {
		return &ValidationError{Reason: "items must not be empty"}
	}
	for _, it := range items {
		if it.ProductID <= 0 {
			return &ValidationError{Reason: "item productId must be positive"}
		}
		if it.Quantity < 1 {
			return &ValidationError{Reason: "item quantity must be at least 1"}
		}
	}
	return nil
}

// AggregateItems folds duplicate product ids into one entry per product,
// summing quantities. Stock is validated and decremented against these
// totals, so repeated lines for the same product accumulate instead of
// overwriting each other. First-occurrence order is preserved.
func AggregateItems(items []ItemInput) []ItemInput {
	idx := make(map[int64]int, len(items))
	out := make([]ItemInput, 0, len(items))
	for _, it := range items {
		if i, ok := idx[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}
