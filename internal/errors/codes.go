package errors

// ErrorCode represents a standardized error code used throughout the gateway
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials ErrorCode = "AUTH_001"
	AuthMissingToken       ErrorCode = "AUTH_002"
	AuthExpiredToken       ErrorCode = "AUTH_003"
	AuthInvalidToken       ErrorCode = "AUTH_004"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral        ErrorCode = "VALIDATION_001"
	ValidationRequiredField  ErrorCode = "VALIDATION_002"
	ValidationInvalidAmount  ErrorCode = "VALIDATION_003"
	ValidationInvalidRouting ErrorCode = "VALIDATION_004"
)

// Upstream error codes (UPSTREAM_*) for the backends the gateway fronts
const (
	UpstreamUnavailable ErrorCode = "UPSTREAM_001"
	UpstreamRejected    ErrorCode = "UPSTREAM_002"
	UpstreamRelayFailed ErrorCode = "UPSTREAM_003"
)

// Configuration error codes (CONFIG_*)
const (
	ConfigMailUnavailable  ErrorCode = "CONFIG_001"
	ConfigOAuthUnavailable ErrorCode = "CONFIG_002"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError     ErrorCode = "SYSTEM_001"
	SystemRateLimitExceeded ErrorCode = "SYSTEM_002"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	AuthInvalidCredentials: "Invalid username or password",
	AuthMissingToken:       "Authorization token is required",
	AuthExpiredToken:       "Authorization token has expired",
	AuthInvalidToken:       "Invalid authorization token",

	ValidationGeneral:        "Validation failed",
	ValidationRequiredField:  "Required field is missing",
	ValidationInvalidAmount:  "Invalid transaction amount",
	ValidationInvalidRouting: "Invalid routing number",

	UpstreamUnavailable: "Backend service temporarily unavailable",
	UpstreamRejected:    "Backend service rejected the request",
	UpstreamRelayFailed: "Failed to relay request to backend service",

	ConfigMailUnavailable:  "Email service not properly configured",
	ConfigOAuthUnavailable: "OAuth is not configured for this deployment",

	SystemInternalError:     "An unexpected error occurred",
	SystemRateLimitExceeded: "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
