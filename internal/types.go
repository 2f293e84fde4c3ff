package internal

// InformalStatement is a natural-language mathematical claim, not yet
// machine-checkable. Domain is an optional problem-domain tag ("parity",
// "complexity", ...) used for import inference and quality scoring.
type InformalStatement struct {
	Text   string `json:"text"`
	Domain string `json:"domain,omitempty"`
}
