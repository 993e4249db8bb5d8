package server

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// DefaultBodyLimit caps JSON request bodies. Upload endpoints (snapshot
// import, logo, photos) are exempt and enforce their own larger limits.
const DefaultBodyLimit = 1 << 20

// UploadPathPrefixes bypass the default body limit
var UploadPathPrefixes = []string{
	"/api/v1/sync/inspections",
	"/api/v1/company/logo",
}

// Header redaction marker
const RedactedValue = "[REDACTED]"
