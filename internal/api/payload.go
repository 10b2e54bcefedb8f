package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// flexNumber accepts a JSON number, a numeric string or null and keeps the
// raw text for the catalog to parse. Null and absent are both nil.
type flexNumber struct {
	raw *string
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		n.raw = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		n.raw = &s
		return nil
	}
	// Numbers keep their literal text; anything else fails to parse later.
	t := string(b)
	n.raw = &t
	return nil
}

// imageField accepts either an array of URLs or a single URL string. Any
// other scalar is treated as absent.
type imageField struct {
	urls []string
}

func (f *imageField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		f.urls = nil
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, &f.urls)
	}
	f.urls = nil
	var s string
	if err := json.Unmarshal(b, &s); err == nil && strings.TrimSpace(s) != "" {
		f.urls = []string{s}
	}
	return nil
}

// authorRef accepts a user ID as a JSON number or numeric string.
type authorRef int64

func (a *authorRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		s = string(b)
	}
	if strings.TrimSpace(s) == "" {
		*a = 0
		return nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 0 {
		return fmt.Errorf("author must be a user id")
	}
	*a = authorRef(id)
	return nil
}
