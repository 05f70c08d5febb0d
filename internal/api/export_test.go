package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestExportPDFFilenameFromHeader(t *testing.T) {
	doc := minimalPDF(t)
	client := newBackend(t, func(r *gin.Engine) {
		r.POST("/export-pdf", func(c *gin.Context) {
			c.Header("Content-Disposition", `attachment; filename="resume_modern_123.pdf"`)
			c.Data(http.StatusOK, "application/pdf", doc)
		})
	})

	export, err := client.ExportPDF(context.Background(), ExportParams{
		ResumeText: "resume",
		TemplateID: "modern",
	})
	if err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	if export.Filename != "resume_modern_123.pdf" {
		t.Fatalf("filename = %q, want resume_modern_123.pdf", export.Filename)
	}
	if !bytes.Equal(export.Bytes, doc) {
		t.Fatalf("payload mismatch: %d bytes, want %d", len(export.Bytes), len(doc))
	}
}

func TestExportPDFFilenameFallback(t *testing.T) {
	doc := minimalPDF(t)
	client := newBackend(t, func(r *gin.Engine) {
		r.POST("/export-pdf", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/pdf", doc)
		})
	})

	export, err := client.ExportPDF(context.Background(), ExportParams{
		ResumeText: "resume",
		TemplateID: "classic",
	})
	if err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	pattern := regexp.MustCompile(`^resume_classic_\d+\.pdf$`)
	if !pattern.MatchString(export.Filename) {
		t.Fatalf("filename %q does not match synthesized pattern", export.Filename)
	}
}

func TestExportPDFEmptyBody(t *testing.T) {
	client := newBackend(t, func(r *gin.Engine) {
		r.POST("/export-pdf", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/pdf", nil)
		})
	})

	_, err := client.ExportPDF(context.Background(), ExportParams{ResumeText: "resume", TemplateID: "modern"})
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindContract {
		t.Fatalf("expected contract violation, got %v", err)
	}
	if apiErr.Message() != "Empty PDF response received" {
		t.Fatalf("message = %q", apiErr.Message())
	}
}

func TestExportPDFWrongContentType(t *testing.T) {
	client := newBackend(t, func(r *gin.Engine) {
		r.POST("/export-pdf", func(c *gin.Context) {
			c.Data(http.StatusOK, "text/html", []byte("<html>not a pdf</html>"))
		})
	})

	_, err := client.ExportPDF(context.Background(), ExportParams{ResumeText: "resume", TemplateID: "modern"})
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindContract {
		t.Fatalf("expected contract violation, got %v", err)
	}
	if !strings.Contains(apiErr.Message(), "Invalid content type") {
		t.Fatalf("message = %q", apiErr.Message())
	}
}

func TestExportPDFCorruptPayload(t *testing.T) {
	client := newBackend(t, func(r *gin.Engine) {
		r.POST("/export-pdf", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/pdf", []byte("definitely not a pdf"))
		})
	})

	_, err := client.ExportPDF(context.Background(), ExportParams{ResumeText: "resume", TemplateID: "modern"})
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindContract {
		t.Fatalf("expected contract violation, got %v", err)
	}
	if !strings.Contains(apiErr.Message(), "corrupt PDF payload") {
		t.Fatalf("message = %q", apiErr.Message())
	}
}

func TestExportPDFRecoversErrorBodyText(t *testing.T) {
	client := newBackend(t, func(r *gin.Engine) {
		r.POST("/export-pdf", func(c *gin.Context) {
			c.Data(http.StatusInternalServerError, "text/plain", []byte("renderer crashed on template"))
		})
	})

	_, err := client.ExportPDF(context.Background(), ExportParams{ResumeText: "resume", TemplateID: "modern"})
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindServer {
		t.Fatalf("expected server error, got %v", err)
	}
	if apiErr.Message() != "renderer crashed on template" {
		t.Fatalf("message = %q", apiErr.Message())
	}
}

func TestExportPDFDetailEnvelope(t *testing.T) {
	client := newBackend(t, func(r *gin.Engine) {
		r.POST("/export-pdf", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "template_id is not supported"})
		})
	})

	_, err := client.ExportPDF(context.Background(), ExportParams{ResumeText: "resume", TemplateID: "brutalist"})
	if msg := UserMessage(err, ""); msg != "template_id is not supported" {
		t.Fatalf("message = %q", msg)
	}
}

func TestDeriveFilename(t *testing.T) {
	tests := []struct {
		name        string
		disposition string
		templateID  string
		want        string
		wantPattern string
	}{
		{
			name:        "header wins",
			disposition: `attachment; filename="custom.pdf"`,
			templateID:  "modern",
			want:        "custom.pdf",
		},
		{
			name:        "no header synthesizes",
			templateID:  "professional",
			wantPattern: `^resume_professional_\d+\.pdf$`,
		},
		{
			name:        "malformed header falls back",
			disposition: "attachment",
			templateID:  "modern",
			wantPattern: `^resume_modern_\d+\.pdf$`,
		},
		{
			name: "no header and no template yields nothing",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := deriveFilename(tt.disposition, tt.templateID)
			if tt.want != "" {
				if got != tt.want {
					t.Fatalf("deriveFilename = %q, want %q", got, tt.want)
				}
				return
			}
			if tt.wantPattern != "" {
				if !regexp.MustCompile(tt.wantPattern).MatchString(got) {
					t.Fatalf("deriveFilename = %q, want match of %q", got, tt.wantPattern)
				}
				return
			}
			if got != "" {
				t.Fatalf("deriveFilename = %q, want empty", got)
			}
		})
	}
}
