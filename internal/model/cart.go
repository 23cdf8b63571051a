package model

// MaxCartQuantity bounds a single cart entry.
const MaxCartQuantity = 1000

// CartItem is one product in a user's cart together with its quantity.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// AddToCartRequest represents the request payload for adding a product to the cart.
// Quantity defaults to 1 when omitted.
type AddToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// UpdateCartRequest represents the request payload for setting a cart quantity.
type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}
