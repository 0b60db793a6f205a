// Package patcher rewrites the three Gemini-related fields of Chrome's
// Local State document and leaves every other value as it was.
package patcher

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
)

// PatchedCountry is the locale written into both variations fields.
const PatchedCountry = "us"

// JSONPatcher implements domain.Patcher over encoding/json.
type JSONPatcher struct{}

// New creates a patcher.
func New() domain.Patcher {
	return &JSONPatcher{}
}

// Apply parses content, rewrites the guarded top-level fields and returns
// the re-serialized document with one flag per rewritten field.
// Nested objects are never inspected.
func (p *JSONPatcher) Apply(content string) (*domain.PatchReport, error) {
	if err := checkText(content); err != nil {
		return nil, domain.InvalidJSON("input JSON parsing failed: " + err.Error())
	}

	root, err := decode(content)
	if err != nil {
		return nil, domain.InvalidJSON("input JSON parsing failed: " + err.Error())
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return nil, domain.InvalidJSON("config file root is not an object")
	}

	report := &domain.PatchReport{}

	// Only a boolean flag is ours to flip; anything else is left alone.
	if v, ok := obj[domain.KeyIsGlicEligible]; ok {
		if _, isBool := v.(bool); isBool {
			obj[domain.KeyIsGlicEligible] = true
			report.ChangedIsGlic = true
		}
	}

	// Presence alone triggers the rewrite, whatever the current type.
	if _, ok := obj[domain.KeyVariationsCountry]; ok {
		obj[domain.KeyVariationsCountry] = PatchedCountry
		report.ChangedVariationsCountry = true
	}

	if v, ok := obj[domain.KeyVariationsPermanentCountry]; ok {
		if _, isArray := v.([]any); isArray {
			obj[domain.KeyVariationsPermanentCountry] = []any{PatchedCountry}
			report.ChangedVariationsPermanentCountry = true
		}
	}

	out, err := encode(obj)
	if err != nil {
		return nil, domain.InvalidJSON("output JSON serialization failed: " + err.Error())
	}

	// Self-check: what we are about to write must parse again.
	if _, err := decode(out); err != nil {
		return nil, domain.InvalidJSON("generated JSON validation failed: " + err.Error())
	}

	report.Content = out
	return report, nil
}

// checkText rejects input that encoding/json would accept only by
// replacing characters with U+FFFD.
func checkText(text string) error {
	if !utf8.ValidString(text) {
		return errors.New("input is not valid UTF-8")
	}
	if offset := unpairedSurrogate(text); offset >= 0 {
		return fmt.Errorf("unpaired surrogate escape at offset %d", offset)
	}
	return nil
}

// unpairedSurrogate returns the offset of the first \uXXXX escape that is
// a surrogate without its partner, or -1.
func unpairedSurrogate(text string) int {
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' {
			continue
		}
		r, ok := escapedRune(text, i)
		if !ok {
			i++ // Two-character escape such as \\ or \"
			continue
		}
		switch {
		case utf16.IsSurrogate(r) && r < 0xDC00:
			low, ok := escapedRune(text, i+6)
			if !ok || low < 0xDC00 || low > 0xDFFF {
				return i
			}
			i += 11
		case utf16.IsSurrogate(r):
			return i
		default:
			i += 5
		}
	}
	return -1
}

// escapedRune decodes a \uXXXX escape starting at text[i].
func escapedRune(text string, i int) (rune, bool) {
	if i+6 > len(text) || text[i] != '\\' || text[i+1] != 'u' {
		return 0, false
	}
	n, err := strconv.ParseUint(text[i+2:i+6], 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}

// decode parses exactly one JSON value. Numbers keep their source text so
// large integers survive the round trip.
func decode(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("unexpected data after top-level value")
		}
		return nil, err
	}
	return v, nil
}

// encode writes v with sorted object keys and two-space indentation.
func encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Ensure JSONPatcher implements domain.Patcher.
var _ domain.Patcher = (*JSONPatcher)(nil)
