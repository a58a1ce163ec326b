package models

type AddItemRequest struct {
	ProductID int64   `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity"`
	Color     *string `json:"color,omitempty"`
	Size      *string `json:"size,omitempty"`
}

type UpdateQuantityRequest struct {
	ProductID int64   `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity"`
	Color     *string `json:"color,omitempty"`
	Size      *string `json:"size,omitempty"`
}

type RemoveItemRequest struct {
	ProductID int64   `json:"product_id" validate:"required"`
	Color     *string `json:"color,omitempty"`
	Size      *string `json:"size,omitempty"`
}

type OpenQuoteRequest struct {
	ProductID *int64 `json:"product_id,omitempty"`
}

type ExportQuoteRequest struct {
	Company   CompanyInfo `json:"company"   validate:"required"`
	SendEmail bool        `json:"send_email"`
}
