package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeInvalidField        = "INVALID_FIELD"
	ErrCodeInvalidStatus       = "INVALID_STATUS"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeItemNotFound        = "ITEM_NOT_FOUND"
	ErrCodeItemUnavailable     = "ITEM_UNAVAILABLE"
	ErrCodeVariantRequired     = "VARIANT_REQUIRED"
	ErrCodePriceMismatch       = "PRICE_MISMATCH"
	ErrCodeCategoryNotFound    = "CATEGORY_NOT_FOUND"
	ErrCodeCategoryExists      = "CATEGORY_EXISTS"
	ErrCodeMenuItemExists      = "MENU_ITEM_EXISTS"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeStoreNotInitialised = "STORE_NOT_INITIALISED"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a domain error for a missing or malformed request field.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeMissingField, message)
}

// Common domain errors
var (
	ErrInvalidPassword     = NewDomainError(ErrCodeUnauthorised, "incorrect password")
	ErrInvalidStatus       = NewDomainError(ErrCodeInvalidStatus, "Valid status is required: recebido, confirmado, preparando, entrega, entregue, cancelado")
	ErrInvalidTransition   = NewDomainError(ErrCodeInvalidTransition, "Order status transition is not allowed")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrQuantityTooLarge    = NewDomainError(ErrCodeInvalidQuantity, "Quantity cannot exceed 999 per item")
	ErrOrderTooLarge       = NewDomainError(ErrCodeInvalidField, "Order total exceeds the maximum allowed amount")
	ErrItemNotFound        = NewDomainError(ErrCodeItemNotFound, "One or more menu items not found")
	ErrMenuItemNotFound    = NewDomainError(ErrCodeItemNotFound, "Menu item not found")
	ErrItemUnavailable     = NewDomainError(ErrCodeItemUnavailable, "One or more menu items are unavailable")
	ErrVariantRequired     = NewDomainError(ErrCodeVariantRequired, "A variant must be selected for this menu item")
	ErrPriceMismatch       = NewDomainError(ErrCodePriceMismatch, "Order totals do not match current menu prices")
	ErrCategoryNotFound    = NewDomainError(ErrCodeCategoryNotFound, "Category not found")
	ErrCategoryExists      = NewDomainError(ErrCodeCategoryExists, "A category with this id already exists")
	ErrMenuItemExists      = NewDomainError(ErrCodeMenuItemExists, "A menu item with this id already exists")
	ErrOrderNotFound       = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrStoreNotInitialised = NewDomainError(ErrCodeStoreNotInitialised, "Store not initialised, run the seed command")
)
