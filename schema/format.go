package schema

// ExchangeFormat is one frame of output, items in draw order.
type ExchangeFormat struct {
	Items []Item
}

// NewExchangeFormat builds a frame from items.
func NewExchangeFormat(items ...Item) ExchangeFormat {
	return ExchangeFormat{Items: items}
}

// Add appends an item to the end of the frame.
func (f *ExchangeFormat) Add(item Item) {
	f.Items = append(f.Items, item)
}

// Len returns the number of items.
func (f ExchangeFormat) Len() int {
	return len(f.Items)
}
