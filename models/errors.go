package models

import (
	"errors"
	"fmt"
)

// Error codes used in API responses and internal error handling.
const (
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeHTTPStatus   = "HTTP_ERROR"
	ErrCodeTimeout      = "FETCH_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"

	// Extraction error codes.
	ErrCodeRecipeNotFound    = "RECIPE_NOT_FOUND"
	ErrCodeNoRecipeObject    = "NO_RECIPE_OBJECT"
	ErrCodeAmbiguousArticle  = "AMBIGUOUS_ARTICLE"
	ErrCodeStructureMismatch = "STRUCTURE_MISMATCH"
	ErrCodeInvalidJSONLD     = "INVALID_JSON_LD"
)

// ForbiddenHint is attached to FORBIDDEN errors. Nothing is done to get
// around the block; the user has to look at the site themselves.
const ForbiddenHint = "the site returned 403 Forbidden, which usually means it blocks scrapers. " +
	"Have a look at the website and this stackoverflow question: " +
	"https://stackoverflow.com/questions/38489386/python-requests-403-forbidden"

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RecipeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type RecipeError struct {
	Code    string
	Message string
	Status  int   // upstream HTTP status, set for FORBIDDEN and HTTP_ERROR
	Err     error // wrapped original error
}

func (e *RecipeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RecipeError) Unwrap() error {
	return e.Err
}

// NewRecipeError creates a new RecipeError.
func NewRecipeError(code, message string, err error) *RecipeError {
	return &RecipeError{Code: code, Message: message, Err: err}
}

// NewStatusError creates the error for a non-success upstream response.
// 403 gets its own code and the anti-scraping hint.
func NewStatusError(status int, url string) *RecipeError {
	if status == 403 {
		return &RecipeError{Code: ErrCodeForbidden, Message: ForbiddenHint, Status: status}
	}
	return &RecipeError{
		Code:    ErrCodeHTTPStatus,
		Message: fmt.Sprintf("HTTP %d for %s", status, url),
		Status:  status,
	}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *RecipeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// HasCode reports whether any RecipeError in err's tree carries code,
// following both single and joined (errors.Join) wrapping.
// A RECIPE_NOT_FOUND error wrapping an AMBIGUOUS_ARTICLE cause matches both.
func HasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if re, ok := err.(*RecipeError); ok && re.Code == code {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return HasCode(u.Unwrap(), code)
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if HasCode(e, code) {
				return true
			}
		}
	}
	return false
}

// AsRecipeError returns the outermost RecipeError in err's chain, or wraps
// err as INTERNAL_ERROR.
func AsRecipeError(err error) *RecipeError {
	var re *RecipeError
	if errors.As(err, &re) {
		return re
	}
	return NewRecipeError(ErrCodeInternal, err.Error(), err)
}
