package reply

import (
	jsonpool "github.com/ajitpratap0/afs-connector/pkg/json"
)

// Messages used in synthetic error replies.
const (
	MessageExecutionFailed = "Failed to execute request"
	MessageCannotConnect   = "Cannot initialize connexion"
)

// Envelope is the structured form of the part every AFS reply shares.
// Embed it, or use it directly, as the T of a RecordDecoder.
type Envelope struct {
	Header Header `json:"header"`
}

// Header is the reply header.
type Header struct {
	Error       *ErrorInfo   `json:"error,omitempty"`
	Performance *Performance `json:"performance,omitempty"`
}

// ErrorInfo carries the messages of an error reply.
type ErrorInfo struct {
	Message []string `json:"message"`
}

// Performance reports the time spent by the engine.
type Performance struct {
	DurationMs int64 `json:"durationMs"`
}

// ErrorMessages returns the header error messages, or nil when the reply is
// not an error reply.
func (h Header) ErrorMessages() []string {
	if h.Error == nil {
		return nil
	}
	return h.Error.Message
}

// ErrorMessages returns the header error messages of the envelope.
func (e *Envelope) ErrorMessages() []string {
	if e == nil {
		return nil
	}
	return e.Header.ErrorMessages()
}

// ErrorBody returns the JSON body of a synthetic error reply:
//
//	{"header":{"error":{"message":["<message>"]}}}
func ErrorBody(message string) []byte {
	body, err := jsonpool.Marshal(Envelope{
		Header: Header{Error: &ErrorInfo{Message: []string{message}}},
	})
	if err != nil {
		// Marshalling a string slice cannot fail.
		panic(err)
	}
	return body
}

// ErrorMessages extracts header.error.message from a decoded reply. It
// understands *Map values and any value exposing ErrorMessages.
func ErrorMessages(r interface{}) []string {
	switch v := r.(type) {
	case *Map:
		raw, ok := v.Path("header", "error", "message")
		if !ok {
			return nil
		}
		items, ok := raw.([]interface{})
		if !ok {
			return nil
		}
		messages := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				messages = append(messages, s)
			}
		}
		return messages
	case interface{ ErrorMessages() []string }:
		return v.ErrorMessages()
	}
	return nil
}

// IsError reports whether r is an error reply.
func IsError(r interface{}) bool {
	return len(ErrorMessages(r)) > 0
}
