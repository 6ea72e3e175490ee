package invoice

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID identifies an invoice. SQL stores issue decimal sequence numbers and
// the transient stores issue UUIDs, so the value is kept as text.
type ID string

// NewSequenceID formats a database sequence value.
func NewSequenceID(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// Int64 returns the numeric form of a sequence id. ok is false for UUIDs
// and anything else that is not a canonical base-10 integer, so "01" and
// "+1" do not alias id 1.
func (id ID) Int64() (n int64, ok bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != string(id) {
		return 0, false
	}
	return n, true
}

func (id ID) String() string {
	return string(id)
}

// MarshalJSON writes sequence ids as JSON numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int64(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}
