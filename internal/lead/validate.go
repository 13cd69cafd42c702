package lead

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxFieldLen = 512

// ParsePartial decodes and normalizes one extraction result. Fields are
// trimmed and capped; an email without the basic user@host shape is dropped
// rather than stored. Unknown keys are ignored.
func ParsePartial(raw []byte) (Partial, error) {
	var p Partial
	if err := json.Unmarshal(raw, &p); err != nil {
		return Partial{}, fmt.Errorf("decode extraction: %w", err)
	}
	p.Name = normalize(p.Name)
	p.Email = normalizeEmail(p.Email)
	p.Company = normalize(p.Company)
	p.Phone = normalize(p.Phone)
	p.Need = normalize(p.Need)
	p.Deadline = normalize(p.Deadline)
	return p, nil
}

func normalize(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	if len(s) > maxFieldLen {
		// Back off to a rune boundary so the cap never splits a multi-byte
		// character; Postgres rejects invalid UTF-8 text.
		cut := maxFieldLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return &s
}

func normalizeEmail(v *string) *string {
	v = normalize(v)
	if v == nil {
		return nil
	}
	s := strings.ToLower(*v)
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 || strings.Contains(s, " ") {
		return nil
	}
	if !strings.Contains(s[at+1:], ".") {
		return nil
	}
	return &s
}
