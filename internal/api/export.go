package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

const exportFallback = "PDF export failed"

var filenamePattern = regexp.MustCompile(`filename="(.+?)"`)

// ExportParams carries an export request. The caller enforces that resume
// text is present, and that a job description accompanies a cover letter.
type ExportParams struct {
	ResumeText          string
	JobDescription      string
	Tone                string
	TemplateID          string
	GenerateCoverLetter bool
	UserID              string
}

type exportRequest struct {
	Resume              string `json:"resume"`
	JobDescription      string `json:"job_description"`
	Tone                string `json:"tone"`
	TemplateID          string `json:"template_id"`
	GenerateCoverLetter bool   `json:"generate_cover_letter"`
	UserID              string `json:"user_id"`
}

// Export is a downloadable document. Handing it to the platform's save
// mechanism is the presentation layer's job.
type Export struct {
	Bytes    []byte
	Filename string
}

// ExportPDF requests a rendered PDF and validates the response before
// returning it: the body must be non-empty, the content type must declare a
// PDF, a filename must be derivable, and the payload must parse as a PDF
// document. A response failing any check is never returned partially.
func (c *Client) ExportPDF(ctx context.Context, params ExportParams) (Export, error) {
	payload, err := json.Marshal(exportRequest{
		Resume:              params.ResumeText,
		JobDescription:      params.JobDescription,
		Tone:                params.Tone,
		TemplateID:          params.TemplateID,
		GenerateCoverLetter: params.GenerateCoverLetter,
		UserID:              userIDOrAnonymous(params.UserID),
	})
	if err != nil {
		return Export{}, transportError("export", exportFallback, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/export-pdf", bytes.NewReader(payload))
	if err != nil {
		return Export{}, transportError("export", exportFallback, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, _, err := c.do(req, "export")
	if err != nil {
		return Export{}, transportError("export", exportFallback, err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return Export{}, exportError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Export{}, transportError("export", exportFallback, err)
	}
	if len(body) == 0 {
		return Export{}, contractError("export", exportFallback, "Empty PDF response received")
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/pdf") {
		return Export{}, contractError("export", exportFallback, fmt.Sprintf("Invalid content type: %s", contentType))
	}

	filename := deriveFilename(resp.Header.Get("Content-Disposition"), params.TemplateID)
	if filename == "" {
		return Export{}, contractError("export", exportFallback, "could not derive a filename")
	}

	if err := validatePDF(body); err != nil {
		return Export{}, contractError("export", exportFallback, fmt.Sprintf("corrupt PDF payload: %v", err))
	}

	return Export{Bytes: body, Filename: filename}, nil
}

// exportError recovers as much diagnostic text as possible from a failed
// export response; the body is often plain text rather than the JSON error
// envelope.
func exportError(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var envelope errorDetail
	if err := json.Unmarshal(body, &envelope); err == nil && strings.TrimSpace(envelope.Detail) != "" {
		return &Error{
			Op:       "export",
			Kind:     KindServer,
			Status:   resp.StatusCode,
			Detail:   strings.TrimSpace(envelope.Detail),
			Fallback: exportFallback,
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return &Error{
			Op:       "export",
			Kind:     KindServer,
			Status:   resp.StatusCode,
			Detail:   text,
			Fallback: exportFallback,
		}
	}
	return &Error{
		Op:       "export",
		Kind:     KindServer,
		Status:   resp.StatusCode,
		Fallback: exportFallback,
	}
}

func deriveFilename(contentDisposition, templateID string) string {
	if contentDisposition != "" {
		if match := filenamePattern.FindStringSubmatch(contentDisposition); match != nil {
			return match[1]
		}
	}
	if strings.TrimSpace(templateID) == "" {
		return ""
	}
	return fmt.Sprintf("resume_%s_%d.pdf", templateID, time.Now().UnixMilli())
}

// validatePDF confirms the payload is structurally a PDF. The parser can
// panic on malformed input, so the check is fenced.
func validatePDF(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()
	_, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	return err
}
