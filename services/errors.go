package services

import "net/http"

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

var (
	ErrEmptyCart       = &ServiceError{StatusCode: http.StatusBadRequest, Message: "cart is empty"}
	ErrOrderInProgress = &ServiceError{StatusCode: http.StatusConflict, Message: "an order is already being placed"}
	ErrPizzaNotFound   = &ServiceError{StatusCode: http.StatusNotFound, Message: "pizza not found"}
)

const orderFailedMessage = "Failed to place order"
