package browse

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// ExportResult is the outcome of a HAR export. Exactly one of HAR and Reason
// is set.
type ExportResult struct {
	HAR    string
	Reason string
}

// Available reports whether a capture was exported.
func (r ExportResult) Available() bool {
	return r.HAR != ""
}

// Exporter pulls the recorded HAR out of a grabbit-browse session.
type Exporter struct {
	Runner Runner
	Log    zerolog.Logger
}

// Export runs `har export --json` against session and validates its output.
func (e *Exporter) Export(ctx context.Context, session string) ExportResult {
	out, code := e.Runner.Output(ctx, "--session", session, "har", "export", "--json")
	if code != 0 {
		res := ExportResult{Reason: fmt.Sprintf("grabbit-browse exited with code %d", code)}
		e.Log.Info().Str("session", session).Str("reason", res.Reason).Msg("har export unavailable")
		return res
	}

	res := ParseEnvelope(out)
	if !res.Available() {
		e.Log.Info().Str("session", session).Str("reason", res.Reason).Msg("har export unavailable")
	} else {
		e.Log.Debug().Str("session", session).Int("bytes", len(res.HAR)).Msg("har exported")
	}
	return res
}

// ParseEnvelope validates a `{success, data: {har}}` result envelope.
func ParseEnvelope(out []byte) ExportResult {
	if !gjson.ValidBytes(out) {
		return ExportResult{Reason: "export output is not valid JSON"}
	}

	doc := gjson.ParseBytes(out)
	if !doc.IsObject() {
		return ExportResult{Reason: "export output is not a result object"}
	}

	if !doc.Get("success").Bool() {
		if msg := doc.Get("error").String(); msg != "" {
			return ExportResult{Reason: "export failed: " + msg}
		}
		return ExportResult{Reason: "export did not succeed"}
	}

	har := doc.Get("data.har")
	if har.Type != gjson.String || har.Str == "" {
		return ExportResult{Reason: "export returned no HAR data"}
	}
	return ExportResult{HAR: har.Str}
}
