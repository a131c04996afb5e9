// Package businessflow contains the core business logic and use cases for the catalog and ordering workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Catalog errors
	ErrBeanNotFound     = errors.New("bean not found")
	ErrNoBeansAvailable = errors.New("no beans available")

	// Bean-of-the-day errors
	ErrBotdHistoryCorrupt  = errors.New("botd history references a missing bean")
	ErrBotdSelectionRaced  = errors.New("botd selection lost the insert race")
	ErrBotdRetriesExceeded = errors.New("botd selection retries exceeded")

	// Order errors
	ErrMalformedBeanPrice = errors.New("bean price has no parseable amount")
	ErrQuantityTooLow     = errors.New("quantity must be at least 1")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsBeanNotFound(err error) bool {
	return errors.Is(err, ErrBeanNotFound)
}

func IsNoBeansAvailable(err error) bool {
	return errors.Is(err, ErrNoBeansAvailable)
}

func IsBotdHistoryCorrupt(err error) bool {
	return errors.Is(err, ErrBotdHistoryCorrupt)
}

func IsBotdRetriesExceeded(err error) bool {
	return errors.Is(err, ErrBotdRetriesExceeded)
}

func IsMalformedBeanPrice(err error) bool {
	return errors.Is(err, ErrMalformedBeanPrice)
}

func IsQuantityTooLow(err error) bool {
	return errors.Is(err, ErrQuantityTooLow)
}
