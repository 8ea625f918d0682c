package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

// Transport selects the request encoding for a submission.
type Transport string

const (
	TransportAuto      Transport = ""
	TransportJSON      Transport = "json"
	TransportMultipart Transport = "multipart"
)

// CompressionGzip marks the capture content as gzip-compressed.
const CompressionGzip = "gzip"

// Multipart field layout for the capture file.
const (
	captureFilename    = "capture.har.gz"
	captureContentType = "application/gzip"
)

// ErrMultipartUnsupported is returned when a multipart upload is requested
// but multipart uploads are disabled.
var ErrMultipartUnsupported = errors.New("multipart upload not supported")

// Content is capture content, either text or already-encoded bytes.
type Content struct {
	text   string
	data   []byte
	binary bool
}

// TextContent wraps a serialized capture.
func TextContent(s string) Content {
	return Content{text: s}
}

// BinaryContent wraps already-compressed capture bytes.
func BinaryContent(b []byte) Content {
	return Content{data: b, binary: true}
}

// IsBinary reports whether the content is bytes rather than text.
func (c Content) IsBinary() bool {
	return c.binary
}

// Bytes returns the content as bytes.
func (c Content) Bytes() []byte {
	if c.binary {
		return c.data
	}
	return []byte(c.text)
}

// SubmitOptions control how a task is submitted.
type SubmitOptions struct {
	// Compression is "" or CompressionGzip. With gzip, text content is
	// compressed before sending and binary content is sent as is.
	Compression string

	Transport  Transport
	AgentSteps []string
}

// SubmitResult identifies a created task.
type SubmitResult struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

type submitRequest struct {
	HARContent  any      `json:"harContent"`
	Prompt      string   `json:"prompt"`
	Model       string   `json:"model,omitempty"`
	Compression string   `json:"compression,omitempty"`
	AgentSteps  []string `json:"agentSteps,omitempty"`
}

// UseMultipart reports which transport a submission of content uses:
// multipart when requested, or for binary content unless JSON is requested.
func UseMultipart(content Content, transport Transport) bool {
	return transport == TransportMultipart || (content.IsBinary() && transport != TransportJSON)
}

// SubmitTask uploads a capture with its prompt and returns the created task.
func (c *Client) SubmitTask(ctx context.Context, content Content, prompt, model string, opts SubmitOptions) (*SubmitResult, error) {
	multipartBody := UseMultipart(content, opts.Transport)
	if multipartBody && !c.multipart {
		return nil, ErrMultipartUnsupported
	}

	if opts.Compression == CompressionGzip && !content.IsBinary() {
		gz, err := Gzip([]byte(content.text))
		if err != nil {
			return nil, fmt.Errorf("failed to compress capture: %w", err)
		}
		content = BinaryContent(gz)
	}

	var (
		body        *bytes.Buffer
		contentType string
		err         error
	)
	if multipartBody {
		body, contentType, err = multipartPayload(content, prompt, model, opts)
	} else {
		body, contentType, err = jsonPayload(content, prompt, model, opts)
	}
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Bool("multipart", multipartBody).
		Str("compression", opts.Compression).
		Int("bytes", body.Len()).
		Int("agent_steps", len(opts.AgentSteps)).
		Msg("submitting task")

	respBody, err := c.doRequest(ctx, http.MethodPost, "/api/cli/tasks", body, contentType)
	if err != nil {
		return nil, err
	}

	var result SubmitResult
	if err := decode(respBody, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func jsonPayload(content Content, prompt, model string, opts SubmitOptions) (*bytes.Buffer, string, error) {
	req := submitRequest{
		Prompt:      prompt,
		Model:       model,
		Compression: opts.Compression,
		AgentSteps:  opts.AgentSteps,
	}
	// []byte marshals as base64.
	if content.IsBinary() {
		req.HARContent = content.data
	} else {
		req.HARContent = content.text
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewBuffer(data), "application/json", nil
}

func multipartPayload(content Content, prompt, model string, opts SubmitOptions) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="har"; filename=%q`, captureFilename))
	h.Set("Content-Type", captureContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(content.Bytes()); err != nil {
		return nil, "", err
	}

	fields := [][2]string{{"prompt", prompt}}
	if model != "" {
		fields = append(fields, [2]string{"model", model})
	}
	if opts.Compression != "" {
		fields = append(fields, [2]string{"compression", opts.Compression})
	}
	if len(opts.AgentSteps) > 0 {
		steps, err := json.Marshal(opts.AgentSteps)
		if err != nil {
			return nil, "", err
		}
		fields = append(fields, [2]string{"agentSteps", string(steps)})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

// Gzip compresses data at the default level.
func Gzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
