package invoice

import "fmt"

// Status is the payment state of an invoice. The zero value is StatusNotPaid.
type Status uint8

const (
	StatusNotPaid Status = iota
	StatusPaid
	StatusOverdue
)

// Statuses lists every valid status in declaration order.
var Statuses = []Status{StatusNotPaid, StatusPaid, StatusOverdue}

var statusCodes = map[Status]string{
	StatusNotPaid: "NOT_PAID",
	StatusPaid:    "PAID",
	StatusOverdue: "OVERDUE",
}

// Danish labels used by existing clients of the service.
var statusLabels = map[Status]string{
	StatusNotPaid: "Ikke betalt",
	StatusPaid:    "Betalt",
	StatusOverdue: "Forfalden",
}

// String returns the canonical code, e.g. "NOT_PAID".
func (s Status) String() string {
	if code, ok := statusCodes[s]; ok {
		return code
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Label returns the Danish display label.
func (s Status) Label() string {
	return statusLabels[s]
}

// Valid reports whether s is one of the declared statuses.
func (s Status) Valid() bool {
	_, ok := statusCodes[s]
	return ok
}

// ParseStatus maps a canonical code or a Danish label to a Status. Matching
// is exact and case-sensitive; anything else returns ErrInvalidStatus.
func ParseStatus(value string) (Status, error) {
	for _, s := range Statuses {
		if value == statusCodes[s] || value == statusLabels[s] {
			return s, nil
		}
	}
	return StatusNotPaid, fmt.Errorf("%w: %q", ErrInvalidStatus, value)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
