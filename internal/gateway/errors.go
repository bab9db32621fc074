package gateway

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrMissingCredentials = errors.New("API credentials required for this operation")
	ErrInvalidSecret      = errors.New("API secret is not valid base64")
	ErrTransport          = errors.New("transport error")
	ErrDecode             = errors.New("invalid JSON response")
	ErrAPI                = errors.New("API error")
)

const (
	defaultErrorCode    = "unknown_error"
	defaultErrorMessage = "An error occurred"

	// maxRawBody bounds how much of an undecodable body ends up in an error.
	maxRawBody = 512
)

// APIError is returned when the gateway answers with a status >= 400.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrAPI) match any APIError.
func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// newAPIError classifies an error body. Missing or non-string fields fall
// back to the defaults.
func newAPIError(status int, body map[string]any) *APIError {
	code, _ := body["error"].(string)
	if code == "" {
		code = defaultErrorCode
	}
	msg, _ := body["message"].(string)
	if msg == "" {
		msg = defaultErrorMessage
	}
	return &APIError{StatusCode: status, Code: code, Message: msg}
}

func decodeError(raw []byte, cause error) error {
	body := string(raw)
	if len(body) > maxRawBody {
		cut := maxRawBody
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "…"
	}
	if cause != nil {
		return fmt.Errorf("%w: %s (%v)", ErrDecode, body, cause)
	}
	return fmt.Errorf("%w: %s", ErrDecode, body)
}
