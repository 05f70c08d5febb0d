package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const extractFallback = "Failed to extract text"

type extractResponse struct {
	Text string `json:"text"`
}

// ExtractText uploads a resume file and returns the plain text the backend
// pulled out of it. A 2xx response with an empty text field is a failure;
// the transport succeeding does not mean the backend produced anything
// usable.
func (c *Client) ExtractText(ctx context.Context, fileName string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", transportError("extract", extractFallback, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", transportError("extract", extractFallback, err)
	}
	if err := writer.Close(); err != nil {
		return "", transportError("extract", extractFallback, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract-text", &buf)
	if err != nil {
		return "", transportError("extract", extractFallback, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, _, err := c.do(req, "extract")
	if err != nil {
		return "", transportError("extract", extractFallback, err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return "", decodeError("extract", extractFallback, resp)
	}

	var parsed extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", transportError("extract", extractFallback, fmt.Errorf("extract response parse: %w", err))
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return "", &Error{
			Op:       "extract",
			Kind:     KindContract,
			Fallback: extractFallback,
			Err:      fmt.Errorf("no text extracted from file"),
		}
	}
	return parsed.Text, nil
}
