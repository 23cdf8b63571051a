package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeInvalidField        = "INVALID_FIELD"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeCartItemNotFound    = "CART_ITEM_NOT_FOUND"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeInvalidPayment      = "INVALID_PAYMENT"
	ErrCodeEmailExists         = "EMAIL_EXISTS"
	ErrCodeOrderNotCancellable = "ORDER_NOT_CANCELLABLE"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// ErrorKind classifies a domain error for transport mapping.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindConflict
	KindUnauthorised
)

// Domain errors for business logic
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error with the generic invalid-field code.
func NewValidationError(message string) *DomainError {
	return NewDomainError(KindValidation, ErrCodeInvalidField, message)
}

// Common domain errors
var (
	ErrEmptyCart           = NewDomainError(KindValidation, ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidQuantity     = NewDomainError(KindValidation, ErrCodeInvalidQuantity, "Quantity must be between 1 and 1000")
	ErrOrderTooLarge       = NewDomainError(KindValidation, ErrCodeInvalidQuantity, "Order total exceeds the allowed maximum")
	ErrInvalidPayment      = NewDomainError(KindValidation, ErrCodeInvalidPayment, "Card number must contain at least 4 digits")
	ErrMissingAddress      = NewDomainError(KindValidation, ErrCodeMissingField, "Shipping address is required")
	ErrProductNotFound     = NewDomainError(KindNotFound, ErrCodeProductNotFound, "Product not found")
	ErrCartItemNotFound    = NewDomainError(KindNotFound, ErrCodeCartItemNotFound, "Product is not in the cart")
	ErrOrderNotFound       = NewDomainError(KindNotFound, ErrCodeOrderNotFound, "Order not found")
	ErrUserNotFound        = NewDomainError(KindNotFound, ErrCodeUserNotFound, "User not found")
	ErrEmailExists         = NewDomainError(KindConflict, ErrCodeEmailExists, "Email already exists")
	ErrOrderNotCancellable = NewDomainError(KindConflict, ErrCodeOrderNotCancellable, "Only pending orders can be cancelled")
	ErrInvalidCredentials  = NewDomainError(KindUnauthorised, ErrCodeInvalidCredentials, "Invalid email or password")
)
