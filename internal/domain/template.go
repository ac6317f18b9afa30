package domain

// TaskTemplate is an optional, pattern-matched task definition (§6
// "Optional task templates"): a named regex pattern table entry whose
// patterns feed the registry template-score signal (C4). The task runner
// (C8) does not execute a template's Steps.
type TaskTemplate struct {
	Name string `yaml:"name" json:"name"`

	// Patterns are regular expressions matched against the utterance.
	// Named capture groups bind to Variables.
	Patterns []string `yaml:"patterns" json:"patterns"`

	// Variables lists the named capture groups a successful pattern match
	// extracts, substituted into Steps via "{name}" placeholders.
	Variables []string `yaml:"variables,omitempty" json:"variables,omitempty"`

	Steps []WorkflowStep `yaml:"steps" json:"steps"`
}
