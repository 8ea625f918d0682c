package har

import (
	"encoding/json"
	"net/url"
	"strings"

	cdphar "github.com/chromedp/cdproto/har"
	"github.com/tidwall/gjson"
)

// MaxAgentSteps bounds the number of steps derived from a capture.
const MaxAgentSteps = 20

// DeriveAgentSteps summarizes the first MaxAgentSteps entries as
// "METHOD host/path" strings, in entry order.
func DeriveAgentSteps(entries []*cdphar.Entry) []string {
	n := min(len(entries), MaxAgentSteps)

	steps := make([]string, 0, n)
	for _, entry := range entries[:n] {
		var method, target string
		if entry != nil && entry.Request != nil {
			method = strings.ToUpper(entry.Request.Method)
			target = hostPath(entry.Request.URL)
		}
		steps = append(steps, strings.TrimSpace(method+" "+target))
	}
	return steps
}

// hostPath strips the scheme, query and fragment from rawURL.
func hostPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err == nil && u.Host != "" {
		return u.Host + u.EscapedPath()
	}

	s := rawURL
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return s
}

// EntriesPrefix decodes at most n entries from the start of raw without
// decoding the rest of the capture. An entry whose shape does not match the
// HAR schema still yields its request method and URL.
func EntriesPrefix(raw string, n int) ([]*cdphar.Entry, error) {
	if !gjson.Valid(raw) {
		return nil, ErrInvalidHAR
	}

	if n <= 0 {
		return nil, nil
	}

	entries := make([]*cdphar.Entry, 0, min(n, MaxAgentSteps))
	gjson.Get(raw, "log.entries").ForEach(func(_, value gjson.Result) bool {
		var entry cdphar.Entry
		if err := json.Unmarshal([]byte(value.Raw), &entry); err != nil || entry.Request == nil {
			entry = cdphar.Entry{Request: &cdphar.Request{
				Method: value.Get("request.method").String(),
				URL:    value.Get("request.url").String(),
			}}
		}
		entries = append(entries, &entry)
		return len(entries) < n
	})
	return entries, nil
}
