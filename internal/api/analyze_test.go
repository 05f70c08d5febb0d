package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAnalyzeMapsResult(t *testing.T) {
	client := newBackend(t, func(r *gin.Engine) {
		r.POST("/analyze", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"analysis": gin.H{
					"match_percentage": 87,
					"skills":           []string{"Go"},
					"missing_skills":   []string{},
					"suggestions":      []string{"Add metrics"},
				},
			})
		})
	})

	result, err := client.Analyze(context.Background(), AnalyzeParams{
		ResumeText:     "resume",
		JobDescription: "job",
		TargetRole:     "Backend Engineer",
		Tone:           "formal",
		TemplateID:     "modern",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.MatchPercentage != 87 {
		t.Fatalf("match percentage = %v, want 87", result.MatchPercentage)
	}
	if len(result.Skills) != 1 || result.Skills[0] != "Go" {
		t.Fatalf("skills = %v", result.Skills)
	}
	if len(result.MissingSkills) != 0 {
		t.Fatalf("missing skills = %v", result.MissingSkills)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0] != "Add metrics" {
		t.Fatalf("suggestions = %v", result.Suggestions)
	}
	if result.CoverLetter != "" || result.InterviewQuestions != nil {
		t.Fatalf("optional fields should be absent: %+v", result)
	}
}

func TestAnalyzeSendsAnonymousForEmptyUserID(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		want   string
	}{
		{name: "empty becomes anonymous", userID: "", want: "anonymous"},
		{name: "identified id preserved", userID: "user-42", want: "user-42"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID string
			client := newBackend(t, func(r *gin.Engine) {
				r.POST("/analyze", func(c *gin.Context) {
					var body struct {
						UserID string `json:"user_id"`
					}
					if err := c.ShouldBindJSON(&body); err != nil {
						c.JSON(http.StatusBadRequest, gin.H{"detail": "bad body"})
						return
					}
					gotUserID = body.UserID
					c.JSON(http.StatusOK, gin.H{"analysis": gin.H{"match_percentage": 50}})
				})
			})

			_, err := client.Analyze(context.Background(), AnalyzeParams{
				ResumeText:     "resume",
				JobDescription: "job",
				TargetRole:     "Engineer",
				UserID:         tt.userID,
			})
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if gotUserID != tt.want {
				t.Fatalf("wire user_id = %q, want %q", gotUserID, tt.want)
			}
		})
	}
}

func TestAnalyzeOptionalSections(t *testing.T) {
	client := newBackend(t, func(r *gin.Engine) {
		r.POST("/analyze", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"analysis": gin.H{
					"match_percentage":    72,
					"skills":              []string{"Go", "SQL"},
					"cover_letter":        "Dear Hiring Manager,",
					"interview_questions": []string{"Describe a race condition you debugged."},
				},
			})
		})
	})

	result, err := client.Analyze(context.Background(), AnalyzeParams{
		ResumeText:     "resume",
		JobDescription: "job",
		TargetRole:     "Engineer",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.CoverLetter != "Dear Hiring Manager," {
		t.Fatalf("cover letter = %q", result.CoverLetter)
	}
	if len(result.InterviewQuestions) != 1 {
		t.Fatalf("interview questions = %v", result.InterviewQuestions)
	}
}

func TestAnalyzeServerDetail(t *testing.T) {
	client := newBackend(t, func(r *gin.Engine) {
		r.POST("/analyze", func(c *gin.Context) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "LLM provider unavailable"})
		})
	})

	_, err := client.Analyze(context.Background(), AnalyzeParams{
		ResumeText:     "resume",
		JobDescription: "job",
		TargetRole:     "Engineer",
	})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Message() != "LLM provider unavailable" {
		t.Fatalf("message = %q", apiErr.Message())
	}
}

func TestAnalyzeMissingEnvelope(t *testing.T) {
	client := newBackend(t, func(r *gin.Engine) {
		r.POST("/analyze", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})
	})

	_, err := client.Analyze(context.Background(), AnalyzeParams{
		ResumeText:     "resume",
		JobDescription: "job",
		TargetRole:     "Engineer",
	})
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindContract {
		t.Fatalf("expected contract violation, got %v", err)
	}
}
