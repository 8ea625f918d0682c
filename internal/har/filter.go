// Package har inspects and trims HAR captures exported from grabbit-browse.
//
// Captures are edited as raw JSON so that fields this package does not know
// about (browser-specific "_" extensions, timings, cookies) pass through
// unchanged and in their original order.
package har

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// BinaryBodyPlaceholder replaces the body of non-text responses.
const BinaryBodyPlaceholder = "(Body removed: binary response)"

var (
	// ErrInvalidHAR is returned when the capture is not a JSON document.
	ErrInvalidHAR = errors.New("invalid HAR data")

	// ErrNoEntries is returned when the capture holds no requests.
	ErrNoEntries = errors.New("no requests recorded")
)

// FilterResult is a capture with binary response bodies stripped.
type FilterResult struct {
	// HAR is the compact re-serialized capture.
	HAR string

	// Entries is the number of entries in the capture.
	Entries int

	// Stripped is the number of entries whose body was replaced.
	Stripped int
}

// IsTextMimeType reports whether a response body of this type is kept.
// The checks are case-sensitive substring matches on the stored value.
func IsTextMimeType(mimeType string) bool {
	return strings.Contains(mimeType, "json") ||
		strings.Contains(mimeType, "text") ||
		strings.Contains(mimeType, "javascript") ||
		strings.Contains(mimeType, "xml")
}

// Filter strips non-text response bodies from raw, preserving entry order
// and count. Entries without a body are left alone and not counted.
func Filter(raw string) (*FilterResult, error) {
	if !gjson.Valid(raw) {
		return nil, ErrInvalidHAR
	}

	entries := gjson.Get(raw, "log.entries")
	if !entries.IsArray() {
		return nil, ErrNoEntries
	}
	items := entries.Array()
	if len(items) == 0 {
		return nil, ErrNoEntries
	}

	result := &FilterResult{Entries: len(items)}

	// Rebuild the entries array once rather than calling sjson on the full
	// document per entry, which would copy the whole capture each time.
	var b strings.Builder
	b.Grow(len(entries.Raw))
	b.WriteByte('[')
	for i, entry := range items {
		if i > 0 {
			b.WriteByte(',')
		}

		out, stripped, err := stripBinaryBody(entry)
		if err != nil {
			return nil, ErrInvalidHAR
		}
		if stripped {
			result.Stripped++
		}
		b.WriteString(out)
	}
	b.WriteByte(']')

	updated := raw
	if result.Stripped > 0 {
		var err error
		updated, err = sjson.SetRaw(raw, "log.entries", b.String())
		if err != nil {
			return nil, ErrInvalidHAR
		}
	}

	result.HAR = gjson.Get(updated, "@ugly").Raw
	return result, nil
}

func stripBinaryBody(entry gjson.Result) (string, bool, error) {
	content := entry.Get("response.content")
	if IsTextMimeType(content.Get("mimeType").String()) {
		return entry.Raw, false, nil
	}

	text := content.Get("text")
	if !hasBody(text) {
		return entry.Raw, false, nil
	}

	out, err := sjson.Set(entry.Raw, "response.content.text", BinaryBodyPlaceholder)
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// hasBody mirrors a truthiness check: missing, null, false, 0 and "" are
// all "no body".
func hasBody(text gjson.Result) bool {
	switch text.Type {
	case gjson.String:
		return text.Str != ""
	case gjson.Number:
		return text.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}

// CountEntries returns the number of entries in raw, or an error if raw is
// not a JSON document.
func CountEntries(raw string) (int, error) {
	if !gjson.Valid(raw) {
		return 0, ErrInvalidHAR
	}
	return int(gjson.Get(raw, "log.entries.#").Int()), nil
}
