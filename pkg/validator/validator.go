package validator

import (
	"strings"
)

// MaxDocumentIDBytes is the longest identifier the document store accepts
const MaxDocumentIDBytes = 1500

// ValidationError is a problem with one request field. Message is client-facing.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error joins the messages in the order they were added
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any errors
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Add adds a validation error
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// DocumentID records a problem with id as a document key under field.
// The caller is expected to have trimmed id already.
func (v *ValidationErrors) DocumentID(field, id string) {
	if id == "" {
		v.Add(field, "missing "+field)
		return
	}
	if msg := ValidateDocumentID(id); msg != "" {
		v.Add(field, field+" "+msg)
	}
}

// MaxBytes records field as too long when s exceeds max bytes. s is never altered.
func (v *ValidationErrors) MaxBytes(field, s string, max int) {
	if len(s) > max {
		v.Add(field, field+" is too long")
	}
}

// ValidateDocumentID reports why id cannot be used as a document key, or "" if it can.
func ValidateDocumentID(id string) string {
	switch {
	case id == "":
		return "is required"
	case id == "." || id == "..":
		return "must not be . or .."
	case strings.Contains(id, "/"):
		return "must not contain /"
	case len(id) > MaxDocumentIDBytes:
		return "is too long"
	}
	return ""
}
