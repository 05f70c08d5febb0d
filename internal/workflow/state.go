package workflow

import (
	"resume-client/internal/api"
	"resume-client/internal/ingest"
)

// Tone selects the writing style for generated content.
type Tone string

const (
	ToneFormal    Tone = "formal"
	ToneFriendly  Tone = "friendly"
	ToneTechnical Tone = "technical"
	ToneCasual    Tone = "casual"
)

// Valid reports whether the tone is one of the supported values.
func (t Tone) Valid() bool {
	switch t {
	case ToneFormal, ToneFriendly, ToneTechnical, ToneCasual:
		return true
	}
	return false
}

// TemplateID selects the layout for exported documents.
type TemplateID string

const (
	TemplateModern       TemplateID = "modern"
	TemplateClassic      TemplateID = "classic"
	TemplateProfessional TemplateID = "professional"
)

// Valid reports whether the template is one of the supported values.
func (id TemplateID) Valid() bool {
	switch id {
	case TemplateModern, TemplateClassic, TemplateProfessional:
		return true
	}
	return false
}

// Options are the user-configurable parameters accompanying every analysis
// and export request. An empty UserID means "no identified user"; the
// anonymous sentinel is substituted at the API boundary, never stored here.
type Options struct {
	TargetRole                 string
	UserID                     string
	Tone                       Tone
	TemplateID                 TemplateID
	GenerateCoverLetter        bool
	GenerateInterviewQuestions bool
}

// DefaultOptions returns the option set a fresh or reset workflow starts
// with.
func DefaultOptions() Options {
	return Options{
		Tone:       ToneFormal,
		TemplateID: TemplateModern,
	}
}

// State is the workflow's full data model. It is owned exclusively by the
// Orchestrator; presentation code reads it through Snapshot.
type State struct {
	File           *ingest.File
	ResumeText     string
	JobDescription string
	Options        Options
	Result         *api.AnalysisResult
	History        []api.HistoryEntry
}
