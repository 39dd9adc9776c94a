package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Configuration errors (CONFIG_*) abort the whole batch
	ErrorCodeConfigMissing   ErrorCode = "CONFIG_MISSING"
	ErrorCodeConfigMalformed ErrorCode = "CONFIG_MALFORMED"

	// Token processing errors (TOKEN_*) skip the token, never the batch
	ErrorCodeTokenFastCharge     ErrorCode = "TOKEN_FAST_CHARGE"
	ErrorCodeTokenCustomAmount   ErrorCode = "TOKEN_UNCHARGEABLE_CUSTOM_AMOUNT"
	ErrorCodeTokenStateInvalid   ErrorCode = "TOKEN_STATE_INVALID"
	ErrorCodeTokenGatewayUnknown ErrorCode = "TOKEN_GATEWAY_UNKNOWN"

	// Payment errors (PAYMENT_*)
	ErrorCodePaymentNotFound         ErrorCode = "PAYMENT_NOT_FOUND"
	ErrorCodePaymentStatusRegression ErrorCode = "PAYMENT_STATUS_REGRESSION"
	ErrorCodePaymentAmountMismatch   ErrorCode = "PAYMENT_AMOUNT_MISMATCH"

	// Gateway errors (GATEWAY_*)
	ErrorCodeGatewayError   ErrorCode = "GATEWAY_ERROR"
	ErrorCodeGatewayTimeout ErrorCode = "GATEWAY_TIMEOUT"

	// Internal errors (INTERNAL_*)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrorCodeDatabaseError ErrorCode = "INTERNAL_DATABASE_ERROR"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail returns a copy of the error with the detail field added. The
// receiver is never mutated, so the shared sentinels stay safe to annotate
// from concurrent batches.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{
		Err:     e.Err,
		Details: details,
		Code:    e.Code,
		Message: e.Message,
	}
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// GetErrorCode extracts the error code from an error, empty if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsConfigError reports whether err is a fatal configuration error.
// Configuration errors are the only per-batch fatal category.
func IsConfigError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeConfigMissing || code == ErrorCodeConfigMalformed
}

// Sentinel errors for conditions callers branch on
var (
	// ErrFastCharge signals the fast-charge guard tripped for a token
	ErrFastCharge = NewDomainError(ErrorCodeTokenFastCharge, "charge attempted too soon after previous charge")
	// ErrUnchargeableCustomAmount signals a custom amount on a multi-item subscription type
	ErrUnchargeableCustomAmount = NewDomainError(ErrorCodeTokenCustomAmount, "custom amount requires a single-item subscription type")
	// ErrStatusRegression signals a rejected paid -> fail transition
	ErrStatusRegression = NewDomainError(ErrorCodePaymentStatusRegression, "payment already paid, refusing fail transition")

	ErrPaymentNotFound = NewDomainError(ErrorCodePaymentNotFound, "payment not found")
	ErrGatewayUnknown  = NewDomainError(ErrorCodeTokenGatewayUnknown, "no gateway registered for code")
)
