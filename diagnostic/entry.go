package diagnostic

// Severity follows the LSP scale: smaller is more severe.
type Severity uint8

const (
	// SeverityError is a hard error.
	SeverityError Severity = 1

	// SeverityWarning is a warning.
	SeverityWarning Severity = 2

	// SeverityInformation is an informational note.
	SeverityInformation Severity = 3

	// SeverityHint is a hint.
	SeverityHint Severity = 4
)

// String returns a human-readable representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// GroupID ties a primary diagnostic to its supporting entries (related
// locations, secondary spans of the same underlying problem).
type GroupID uint64

// Entry is the payload of one tracked diagnostic. The range it applies to
// lives in the surrounding span item, not here.
type Entry struct {
	// Severity of the diagnostic.
	Severity Severity

	// Message is the human-readable description.
	Message string

	// Source names the producer, e.g. a language server or linter.
	Source string

	// Code is the producer's machine-readable code, if any.
	Code string

	// Group ties related entries together.
	Group GroupID

	// IsPrimary marks the group's main entry; the rest are supporting.
	IsPrimary bool
}
