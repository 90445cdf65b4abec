package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEngineUnavailable marks a required external engine or model that is
	// not installed, not loadable, or not authorized (missing credential).
	ErrEngineUnavailable = errors.New("engine unavailable")
	// ErrConversion marks a failed audio normalization step. The wrapped
	// message carries the converter's diagnostic output.
	ErrConversion = errors.New("conversion error")
	// ErrProcessing marks an engine that loaded fine but failed on this
	// specific input. The engine stays usable for the next call.
	ErrProcessing = errors.New("processing error")
	// ErrMissingCapability marks a diarization policy requested without the
	// capability it needs (e.g. embeddings without an embedding model).
	ErrMissingCapability = errors.New("missing capability")
	// ErrValidation marks bad caller input (missing file, bad flag value).
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrProcessing
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Hint maps a classified error to a short remediation note shown alongside
// the failure. Unclassified errors get no hint.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrEngineUnavailable):
		return "install the missing engine or supply the required credential"
	case errors.Is(err, ErrMissingCapability):
		return "the selected method needs an embedding model; use --method alternating or install the model"
	case errors.Is(err, ErrConversion):
		return "check that the input is a readable audio file"
	case errors.Is(err, ErrProcessing):
		return "the engine failed on this input; see the diagnostic output"
	default:
		return ""
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
