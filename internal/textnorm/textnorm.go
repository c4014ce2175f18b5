package textnorm

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrUnknownForm is returned by Parse for names it does not recognise.
var ErrUnknownForm = errors.New("unknown normalization form")

// Form is a Unicode normalization applied to extracted text. The zero value
// leaves text untouched.
type Form struct {
	name string
	f    norm.Form
	on   bool
}

// Parse maps a config value such as "nfc" to a Form. "" and "none" disable
// normalization.
func Parse(name string) (Form, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", "none":
		return Form{}, nil
	case "nfc":
		return Form{name: n, f: norm.NFC, on: true}, nil
	case "nfd":
		return Form{name: n, f: norm.NFD, on: true}, nil
	case "nfkc":
		return Form{name: n, f: norm.NFKC, on: true}, nil
	case "nfkd":
		return Form{name: n, f: norm.NFKD, on: true}, nil
	default:
		return Form{}, fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
}

// String returns the canonical name, or "none".
func (f Form) String() string {
	if !f.on {
		return "none"
	}
	return f.name
}

// Apply normalizes s.
func (f Form) Apply(s string) string {
	if !f.on {
		return s
	}
	return f.f.String(s)
}
