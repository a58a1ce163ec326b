package models

// VariantKey is the composite identity of a line item. A nil color or size on
// the line item maps to Set=false, which never compares equal to any chosen
// string, including the empty one.
type VariantKey struct {
	ProductID int64
	Color     Selection
	Size      Selection
}

// Selection is an optional variant attribute choice.
type Selection struct {
	Set   bool
	Value string
}

func SelectionOf(v *string) Selection {
	if v == nil {
		return Selection{}
	}

	return Selection{Set: true, Value: *v}
}

// LineItem is one quantity-bearing entry in a cart or quotation. Product
// fields are snapshotted at creation time; UnitPrice is fixed at insertion and
// never recomputed when the catalog changes.
type LineItem struct {
	Product

	Quantity      int     `json:"quantity"`
	SelectedColor *string `json:"selected_color,omitempty"`
	SelectedSize  *string `json:"selected_size,omitempty"`
	UnitPrice     float64 `json:"unit_price"`
	TotalPrice    float64 `json:"total_price"`
}

func (li *LineItem) Key() VariantKey {
	return VariantKey{
		ProductID: li.Product.ID,
		Color:     SelectionOf(li.SelectedColor),
		Size:      SelectionOf(li.SelectedSize),
	}
}

// SetQuantity updates the quantity and re-derives the line total, keeping
// TotalPrice = UnitPrice × Quantity after every mutation.
func (li *LineItem) SetQuantity(qty int) {
	li.Quantity = qty
	li.TotalPrice = li.UnitPrice * float64(qty)
}
