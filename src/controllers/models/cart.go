package models

// AddItemRequest is the payload for adding a catalog item to the cart.
// Quantity defaults to 1 when omitted.
type AddItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}
