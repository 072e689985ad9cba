package engine

import "fmt"

// ConfigurationError reports an invalid engine configuration. It is meant
// to abort startup; it must never be produced on the request path.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("engine configuration: %s", e.Reason)
}

// InputRangeError reports a request input outside its valid domain:
// a normalized signal out of [-1,1] or an unrecognized enum value.
type InputRangeError struct {
	Field string
	Value interface{}
}

func (e *InputRangeError) Error() string {
	return fmt.Sprintf("input out of range: %s=%v", e.Field, e.Value)
}
