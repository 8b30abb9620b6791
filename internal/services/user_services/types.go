package user_services

// Logger interface for all user services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Helper function for safe string slicing in log redaction
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// redact keeps the first few characters of an identifier for log
// correlation without exposing the full value.
func redact(s string) string {
	if s == "" {
		return ""
	}
	return s[:min(4, len(s))] + "****"
}
