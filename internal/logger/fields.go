package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields, propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldFlower is the normalized flower lookup key
	FieldFlower = "flower"

	// FieldMeaning is the normalized meaning lookup key
	FieldMeaning = "meaning"

	// FieldProvider is the text generation provider
	FieldProvider = "provider"
)

// Metric fields, used on Entry for aggregation.
const (
	FieldDurationMs = "duration_ms"
	FieldCount      = "count"
	FieldSize       = "size"
	FieldStatus     = "status"
)
