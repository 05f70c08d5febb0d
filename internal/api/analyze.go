package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const analyzeFallback = "Analysis failed"

// AnalyzeParams carries everything one analysis request needs. Text
// preconditions (non-empty resume and job description, non-blank target
// role) are the caller's responsibility.
type AnalyzeParams struct {
	ResumeText                 string
	JobDescription             string
	TargetRole                 string
	Tone                       string
	TemplateID                 string
	GenerateCoverLetter        bool
	GenerateInterviewQuestions bool
	UserID                     string
}

type analyzeRequest struct {
	Resume                     string `json:"resume"`
	JobDescription             string `json:"job_description"`
	TargetRole                 string `json:"target_role"`
	Tone                       string `json:"tone"`
	TemplateID                 string `json:"template_id"`
	GenerateCoverLetter        bool   `json:"generate_cover_letter"`
	GenerateInterviewQuestions bool   `json:"generate_interview_questions"`
	UserID                     string `json:"user_id"`
}

type analyzeResponse struct {
	Analysis *AnalysisResult `json:"analysis"`
}

// Analyze submits resume text plus job description and returns the
// structured comparison. An empty caller user id goes over the wire as the
// anonymous sentinel; the substitution happens here and only here.
func (c *Client) Analyze(ctx context.Context, params AnalyzeParams) (AnalysisResult, error) {
	payload, err := json.Marshal(analyzeRequest{
		Resume:                     params.ResumeText,
		JobDescription:             params.JobDescription,
		TargetRole:                 params.TargetRole,
		Tone:                       params.Tone,
		TemplateID:                 params.TemplateID,
		GenerateCoverLetter:        params.GenerateCoverLetter,
		GenerateInterviewQuestions: params.GenerateInterviewQuestions,
		UserID:                     userIDOrAnonymous(params.UserID),
	})
	if err != nil {
		return AnalysisResult{}, transportError("analyze", analyzeFallback, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return AnalysisResult{}, transportError("analyze", analyzeFallback, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, _, err := c.do(req, "analyze")
	if err != nil {
		return AnalysisResult{}, transportError("analyze", analyzeFallback, err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return AnalysisResult{}, decodeError("analyze", analyzeFallback, resp)
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return AnalysisResult{}, transportError("analyze", analyzeFallback, fmt.Errorf("analyze response parse: %w", err))
	}
	if parsed.Analysis == nil {
		return AnalysisResult{}, contractError("analyze", analyzeFallback, "response missing analysis payload")
	}
	return *parsed.Analysis, nil
}
