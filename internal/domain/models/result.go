package models

const unknownError = "Unknown error"

// Result is the uniform envelope returned by every client call.
// Success is true exactly when Data is non-nil and Error is empty.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Status  int    `json:"status"`
}

func Ok[T any](data *T, status int) Result[T] {
	if data == nil {
		data = new(T)
	}
	return Result[T]{Success: true, Data: data, Status: status}
}

func Fail[T any](message string, status int) Result[T] {
	if message == "" {
		message = unknownError
	}
	return Result[T]{Error: message, Status: status}
}

// Valid reports whether the envelope invariant holds.
func (r Result[T]) Valid() bool {
	if r.Success {
		return r.Data != nil && r.Error == ""
	}
	return r.Data == nil && r.Error != ""
}
