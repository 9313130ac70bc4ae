package oauth2

import "fmt"

// Error codes a token endpoint may return, as defined in RFC 6749 §5.2.
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidClient        = "invalid_client"
	ErrorCodeInvalidGrant         = "invalid_grant"
	ErrorCodeUnauthorizedClient   = "unauthorized_client"
	ErrorCodeUnsupportedGrantType = "unsupported_grant_type"
	ErrorCodeInvalidScope         = "invalid_scope"
)

// ErrorResponse is the JSON error body returned by the token endpoint for a
// rejected request. It satisfies the error interface so transport code can
// return it directly.
type ErrorResponse struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
	URI         string `json:"error_uri,omitempty"`
}

func (e *ErrorResponse) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("oauth2: server returned error %q", e.Code)
	}
	return fmt.Sprintf("oauth2: server returned error %q: %s", e.Code, e.Description)
}

// Is reports whether target is an ErrorResponse with the same error code,
// letting callers match on errors.Is with a code-only template.
func (e *ErrorResponse) Is(target error) bool {
	t, ok := target.(*ErrorResponse)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
