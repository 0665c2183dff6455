package ports

import "time"

// Logger defines the contract for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// MetricsRecorder defines the contract for operational metrics
type MetricsRecorder interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	ObserveUpstreamCall(endpoint string, status int, failed bool, duration time.Duration)
	RecordHistoryWrite(source string, success bool)
	RecordCacheLookup(cache string, hit bool)
}

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
