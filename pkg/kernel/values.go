package kernel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
)

type Email string

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(s string) Email {
	return Email(strings.ToLower(strings.TrimSpace(s)))
}

func (e Email) String() string { return string(e) }
func (e Email) IsEmpty() bool  { return strings.TrimSpace(string(e)) == "" }

// IsValid reports whether e is a bare RFC 5322 address
func (e Email) IsValid() bool {
	addr, err := mail.ParseAddress(string(e))
	return err == nil && addr.Address == string(e)
}

type FirstName string

type LastName string

// Phone accepts both JSON strings and JSON numbers on input
type Phone string

func (p Phone) String() string { return string(p) }
func (p Phone) IsEmpty() bool  { return strings.TrimSpace(string(p)) == "" }

func (p *Phone) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Phone(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("phone must be a string or number: %w", err)
	}
	*p = Phone(n.String())
	return nil
}

// FileURL points at a stored original upload
type FileURL string
