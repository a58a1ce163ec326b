package models

import "github.com/google/uuid"

// Quotation is the ephemeral line-item collection behind one open quoting
// interaction. It is discarded when the interaction closes and never shares
// line items by reference with the cart.
type Quotation struct {
	ID    uuid.UUID `json:"id"`
	Items LineItems `json:"items"`
	Total float64   `json:"total"`

	// CartSynced is the merge-clean flag: true while every quoted item that
	// shares identity with a cart item still matches that cart item's
	// quantity. A true flag disables a re-merge.
	CartSynced bool `json:"cart_synced"`
}

func NewQuotation() *Quotation {
	return &Quotation{ID: uuid.New(), Items: LineItems{}}
}

func (q *Quotation) RecomputeTotals() {
	q.Total = q.Items.Subtotal()
}

// RecomputeCartSynced downgrades the clean flag when any quoted line item
// that has a cart counterpart diverged in quantity. Quotation-only items do
// not affect it, and the flag only returns to true through a merge.
func (q *Quotation) RecomputeCartSynced(cartItems LineItems) {
	if !q.CartSynced {
		return
	}

	for i := range cartItems {
		j := q.Items.IndexOf(cartItems[i].Key())
		if j >= 0 && q.Items[j].Quantity != cartItems[i].Quantity {
			q.CartSynced = false

			return
		}
	}
}

// CompanyInfo is the metadata collected by the quotation form. Field presence
// is validated upstream; the export only consumes the values.
type CompanyInfo struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	TaxID string `json:"tax_id" validate:"required"`
}

// QuoteLine is one rendered row of an exported quotation.
type QuoteLine struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	FormattedTotal string `json:"formatted_total"`
}

// QuoteDocument is the flat record handed to the document-rendering sink.
type QuoteDocument struct {
	Company        CompanyInfo `json:"company"`
	Lines          []QuoteLine `json:"lines"`
	Total          float64     `json:"total"`
	FormattedTotal string      `json:"formatted_total"`
}
