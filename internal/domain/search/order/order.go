package order

// Order is the result ordering strategy.
type Order string

// Result ordering constants.
const (
	// Relevance sorts by descending relevance score, ties broken by catalog order.
	Relevance Order = "relevance"
	PriceAsc  Order = "price_asc"
	PriceDesc Order = "price_desc"
	// Newest sorts by product creation time, most recent first.
	Newest Order = "newest"
)

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == Relevance || o == PriceAsc || o == PriceDesc || o == Newest
}
