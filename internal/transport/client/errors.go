package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	serverErrorMessage = "Server error"
	noResponseMessage  = "No response from server"
)

var (
	ErrNoResponse      = errors.New("no response from server")
	ErrNoRefreshToken  = errors.New("no refresh token")
	ErrRefreshRejected = errors.New("refresh rejected")
	ErrSessionExpired  = errors.New("session expired")
)

// ServerError is a non-2xx answer from a backend.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server responded %d: %s", e.Status, e.Message)
}

func newServerError(status int, body []byte) *ServerError {
	return &ServerError{Status: status, Message: serverMessage(status, body)}
}

// serverMessage prefers the body's "message", then the status text.
func serverMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		if m := gjson.GetBytes(body, "message"); m.Type == gjson.String && strings.TrimSpace(m.Str) != "" {
			return m.Str
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return serverErrorMessage
}

// Classify maps a call error onto the envelope's message and status.
func Classify(err error) (string, int) {
	var se *ServerError
	switch {
	case errors.As(err, &se):
		return se.Message, se.Status
	case errors.Is(err, ErrNoResponse):
		return noResponseMessage, 0
	default:
		return err.Error(), 0
	}
}
