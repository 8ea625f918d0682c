package har

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const sampleHAR = `{
  "log": {
    "version": "1.2",
    "creator": {"name": "grabbit-browse", "version": "0.4.0"},
    "entries": [
      {
        "request": {"method": "GET", "url": "https://shop.example.com/"},
        "response": {"status": 200, "content": {"mimeType": "text/html; charset=utf-8", "text": "<html></html>"}},
        "_resourceType": "document"
      },
      {
        "request": {"method": "GET", "url": "https://cdn.example.com/logo.png"},
        "response": {"status": 200, "content": {"mimeType": "image/png", "text": "iVBORw0KGgo=", "encoding": "base64"}}
      },
      {
        "request": {"method": "POST", "url": "https://api.example.com/cart?id=7"},
        "response": {"status": 201, "content": {"mimeType": "application/json", "text": "{\"ok\":true}"}}
      },
      {
        "request": {"method": "GET", "url": "https://cdn.example.com/font.woff2"},
        "response": {"status": 200, "content": {"mimeType": "font/woff2", "text": "d09GMgABAAAA"}}
      },
      {
        "request": {"method": "GET", "url": "https://cdn.example.com/empty.gif"},
        "response": {"status": 204, "content": {"mimeType": "image/gif"}}
      },
      {
        "request": {"method": "GET", "url": "https://cdn.example.com/app.js"},
        "response": {"status": 200, "content": {"mimeType": "application/javascript", "text": "console.log(1)"}}
      }
    ]
  }
}`

func TestFilterStripsBinaryBodies(t *testing.T) {
	res, err := Filter(sampleHAR)
	require.NoError(t, err)

	assert.Equal(t, 6, res.Entries)
	assert.Equal(t, 2, res.Stripped)

	texts := gjson.Get(res.HAR, "log.entries.#.response.content.text").Array()
	require.Len(t, texts, 5, "the entry without a body stays without one")

	assert.Equal(t, "<html></html>", gjson.Get(res.HAR, "log.entries.0.response.content.text").String())
	assert.Equal(t, BinaryBodyPlaceholder, gjson.Get(res.HAR, "log.entries.1.response.content.text").String())
	assert.Equal(t, `{"ok":true}`, gjson.Get(res.HAR, "log.entries.2.response.content.text").String())
	assert.Equal(t, BinaryBodyPlaceholder, gjson.Get(res.HAR, "log.entries.3.response.content.text").String())
	assert.False(t, gjson.Get(res.HAR, "log.entries.4.response.content.text").Exists())
	assert.Equal(t, "console.log(1)", gjson.Get(res.HAR, "log.entries.5.response.content.text").String())
}

func TestFilterPreservesOrderAndUnknownFields(t *testing.T) {
	res, err := Filter(sampleHAR)
	require.NoError(t, err)

	urls := gjson.Get(res.HAR, "log.entries.#.request.url").Array()
	want := []string{
		"https://shop.example.com/",
		"https://cdn.example.com/logo.png",
		"https://api.example.com/cart?id=7",
		"https://cdn.example.com/font.woff2",
		"https://cdn.example.com/empty.gif",
		"https://cdn.example.com/app.js",
	}
	require.Len(t, urls, len(want))
	for i, u := range urls {
		assert.Equal(t, want[i], u.String())
	}

	assert.Equal(t, "document", gjson.Get(res.HAR, "log.entries.0._resourceType").String())
	assert.Equal(t, "base64", gjson.Get(res.HAR, "log.entries.1.response.content.encoding").String())
	assert.Equal(t, "grabbit-browse", gjson.Get(res.HAR, "log.creator.name").String())
}

func TestFilterOutputIsCompact(t *testing.T) {
	res, err := Filter(sampleHAR)
	require.NoError(t, err)

	assert.NotContains(t, res.HAR, "\n")
	assert.True(t, json.Valid([]byte(res.HAR)))
}

func TestFilterTextBodiesUnchanged(t *testing.T) {
	const capture = `{"log":{"entries":[
		{"request":{"method":"GET","url":"https://a.test/x"},"response":{"content":{"mimeType":"application/xml","text":"<a>é</a>"}}},
		{"request":{"method":"GET","url":"https://a.test/y"},"response":{"content":{"mimeType":"text/plain","text":"  spaced  "}}}
	]}}`

	res, err := Filter(capture)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Stripped)
	assert.Equal(t, gjson.Get(capture, "log.entries.0.response.content.text").String(),
		gjson.Get(res.HAR, "log.entries.0.response.content.text").String())
	assert.Equal(t, "  spaced  ", gjson.Get(res.HAR, "log.entries.1.response.content.text").String())
}

func TestFilterMimeTypeIsCaseSensitive(t *testing.T) {
	const capture = `{"log":{"entries":[
		{"request":{"method":"GET","url":"https://a.test/"},"response":{"content":{"mimeType":"APPLICATION/JSON","text":"{}"}}}
	]}}`

	res, err := Filter(capture)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stripped)
}

func TestFilterMissingResponse(t *testing.T) {
	const capture = `{"log":{"entries":[{"request":{"method":"GET","url":"https://a.test/"}}]}}`

	res, err := Filter(capture)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Entries)
	assert.Equal(t, 0, res.Stripped)
}

func TestFilterErrors(t *testing.T) {
	tests := []struct {
		name    string
		capture string
		wantErr error
	}{
		{"not json", "<html>", ErrInvalidHAR},
		{"truncated", `{"log":{"entries":[`, ErrInvalidHAR},
		{"empty entries", `{"log":{"entries":[]}}`, ErrNoEntries},
		{"no log", `{}`, ErrNoEntries},
		{"entries not array", `{"log":{"entries":{}}}`, ErrNoEntries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Filter(tt.capture)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIsTextMimeType(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"application/json", true},
		{"application/vnd.api+json", true},
		{"text/css", true},
		{"application/x-javascript", true},
		{"image/svg+xml", true},
		{"image/png", false},
		{"font/woff2", false},
		{"application/octet-stream", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsTextMimeType(tt.mime); got != tt.want {
			t.Errorf("IsTextMimeType(%q) = %v, want %v", tt.mime, got, tt.want)
		}
	}
}

func TestCountEntries(t *testing.T) {
	n, err := CountEntries(sampleHAR)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = CountEntries(`{"log":{}}`)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = CountEntries("nope")
	assert.ErrorIs(t, err, ErrInvalidHAR)
}
