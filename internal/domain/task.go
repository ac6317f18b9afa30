// Package domain provides shared data types for the task orchestration
// system: parsed tasks, workflows, screen states, locate results, and the
// plan/result types produced by the executor.
package domain

// Utterance is an opaque natural-language or fixed-form input string.
// Normalization (trim + fold full-width colon to ASCII) happens at the
// classifier boundary, not on this type.
type Utterance string

// ParsedTask is the classifier's output: a task type plus the fields
// extracted for it. Empty fields are permitted, Type included: the
// classifier's regex degrade leaves Type empty for a simple utterance it
// could not parse. A non-empty Type is one of the recognized types
// (extensible beyond the four named here).
type ParsedTask struct {
	// Type is one of send_msg, post_moment_only_text, others, invalid, or empty.
	Type string `json:"type"`

	// Recipient is the addressee, when applicable (e.g. send_msg).
	Recipient string `json:"recipient,omitempty"`

	// Content is the message/post body, when applicable.
	Content string `json:"content,omitempty"`
}

// TaskClass groups a ParsedTask.Type into simple, complex, or invalid.
type TaskClass string

// Classes returned by DeriveClass.
const (
	ClassSimple  TaskClass = "simple"
	ClassComplex TaskClass = "complex"
	ClassInvalid TaskClass = "invalid"
)

// DeriveClass maps a ParsedTask.Type to its TaskClass: send_msg and
// post_moment_only_text are simple, others is complex, invalid is invalid,
// and any other recognized type defaults to complex.
func DeriveClass(taskType string) TaskClass {
	switch taskType {
	case "send_msg", "post_moment_only_text":
		return ClassSimple
	case "invalid":
		return ClassInvalid
	case "others":
		return ClassComplex
	default:
		return ClassComplex
	}
}

// IsActionable reports whether p is usable by a handler: non-invalid with a
// recognized type.
func (p ParsedTask) IsActionable() bool {
	return p.Type != "" && p.Type != "invalid"
}
