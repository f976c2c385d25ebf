package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/rileyhilliard/topnet/internal/errors"
	"github.com/rileyhilliard/topnet/internal/source"
)

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --format json output uses this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
	ErrCodeNoCounters     = "NO_COUNTERS"
	ErrCodeSourceFailed   = "SOURCE_FAILED"
	ErrCodeCollectFailed  = "COLLECT_FAILED"
	ErrCodeRenderFailed   = "RENDER_FAILED"
	ErrCodeCommandFailed  = "COMMAND_FAILED"
	ErrCodeCancelled      = "CANCELLED"
	ErrCodeUnknown        = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: true,
		Data:    data,
	})
}

// WriteJSONError writes an error response to the writer.
func WriteJSONError(w io.Writer, code, message, suggestion string, details interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error: &JSONError{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
			Details:    details,
		},
	})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	if stderrors.Is(err, context.Canceled) {
		return &JSONError{Code: ErrCodeCancelled, Message: "Interrupted"}
	}

	var tnErr *errors.Error
	if stderrors.As(err, &tnErr) {
		code := mapErrorCode(tnErr.Code, tnErr.Message)
		if stderrors.Is(err, source.ErrNoHandles) {
			code = ErrCodeNoCounters
		}
		je := &JSONError{
			Code:       code,
			Message:    tnErr.Message,
			Suggestion: tnErr.Suggestion,
		}
		if tnErr.Cause != nil {
			je.Details = tnErr.Cause.Error()
		}
		return je
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		// Distinguish between not found and invalid
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrSource:
		return ErrCodeSourceFailed
	case errors.ErrCollect:
		return ErrCodeCollectFailed
	case errors.ErrRender:
		return ErrCodeRenderFailed
	case errors.ErrExec:
		return ErrCodeCommandFailed
	}

	return ErrCodeUnknown
}
