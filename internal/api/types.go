package api

import "time"

// AnalysisResult is the structured outcome of a resume/job comparison.
// Optional sections are present only when the matching toggle was sent.
type AnalysisResult struct {
	MatchPercentage    float64  `json:"match_percentage"`
	Skills             []string `json:"skills"`
	MissingSkills      []string `json:"missing_skills"`
	Suggestions        []string `json:"suggestions"`
	CoverLetter        string   `json:"cover_letter,omitempty"`
	InterviewQuestions []string `json:"interview_questions,omitempty"`
}

// HistoryEntry is one prior analysis attempt, immutable once fetched.
type HistoryEntry struct {
	TargetRole            string          `json:"target_role"`
	TemplateID            string          `json:"template_id"`
	Tone                  string          `json:"tone"`
	ResumePreview         string          `json:"resume_preview"`
	JobDescriptionPreview string          `json:"job_description_preview"`
	AnalysisResult        *AnalysisResult `json:"analysis_result,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
}

func userIDOrAnonymous(userID string) string {
	if userID == "" {
		return AnonymousUserID
	}
	return userID
}
