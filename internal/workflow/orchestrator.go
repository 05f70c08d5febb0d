package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"resume-client/internal/api"
	"resume-client/internal/ingest"
	"resume-client/internal/notify"
	"resume-client/internal/settings"
	"resume-client/internal/shared/metrics"
	"resume-client/internal/shared/telemetry"
	"resume-client/internal/shared/util"
)

// Backend is the remote analysis service as the workflow sees it.
// *api.Client satisfies it.
type Backend interface {
	ExtractText(ctx context.Context, fileName string, file io.Reader) (string, error)
	Analyze(ctx context.Context, params api.AnalyzeParams) (api.AnalysisResult, error)
	ExportPDF(ctx context.Context, params api.ExportParams) (api.Export, error)
	History(ctx context.Context, userID string) ([]api.HistoryEntry, error)
}

// Saver receives a validated export at the presentation boundary. Writing
// the bytes anywhere is its problem, not the workflow's.
type Saver interface {
	Save(export api.Export) error
}

// Config wires an Orchestrator's collaborators and timing.
type Config struct {
	Backend          Backend
	Notifier         *notify.Center
	Saver            Saver
	SettingsDebounce time.Duration
	HistorySettle    time.Duration
}

// Orchestrator sequences file ingestion, extraction, analysis, export and
// history retrieval, and owns all workflow state. Exactly one operation may
// be in flight at a time: a second trigger fails fast with ErrBusy instead
// of interleaving with the first.
type Orchestrator struct {
	mu    sync.Mutex
	state State

	busy     atomic.Bool
	backend  Backend
	notifier *notify.Center
	saver    Saver
	settings *settings.Store

	settle       time.Duration
	historyTimer *time.Timer
	historyGen   uint64
}

// New builds an Orchestrator with default options and an empty history.
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		backend:  cfg.Backend,
		notifier: cfg.Notifier,
		saver:    cfg.Saver,
		settle:   cfg.HistorySettle,
		state:    State{Options: DefaultOptions()},
	}
	if o.settle <= 0 {
		o.settle = 100 * time.Millisecond
	}
	o.settings = settings.NewStore(cfg.SettingsDebounce, o.commitTargetRole, o.commitUserID)
	return o
}

// Snapshot returns a read-only copy of the workflow state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Busy reports whether an operation is currently in flight.
func (o *Orchestrator) Busy() bool { return o.busy.Load() }

// Close cancels pending debounce commits and settle timers.
func (o *Orchestrator) Close() {
	o.settings.Stop()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.historyGen++
	if o.historyTimer != nil {
		o.historyTimer.Stop()
		o.historyTimer = nil
	}
}

// SelectFile validates a candidate and, when accepted, replaces the current
// file. A rejected candidate leaves the prior selection untouched.
func (o *Orchestrator) SelectFile(candidate ingest.Candidate) error {
	accepted, err := ingest.Accept(candidate)
	if err != nil {
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			o.notifier.Error(verr.Message)
		} else {
			o.notifier.Error("Please upload a PDF or DOCX file")
		}
		return err
	}

	o.mu.Lock()
	o.state.File = &accepted
	o.mu.Unlock()

	o.notifier.Success(fmt.Sprintf("File %q selected successfully!", accepted.Name))
	return nil
}

// Extract sends the selected file to the backend and stores the extracted
// resume text.
func (o *Orchestrator) Extract(ctx context.Context) (err error) {
	o.mu.Lock()
	file := o.state.File
	o.mu.Unlock()

	if file == nil {
		return o.invalid("Please select a file first")
	}
	if err := o.begin("extract"); err != nil {
		return err
	}
	defer func(start time.Time) { o.finish("extract", start, err) }(time.Now())

	if file.Open == nil {
		err = errors.New("selected file has no content source")
		o.fail("extract", err, "Failed to extract text")
		return err
	}
	reader, err := file.Open()
	if err != nil {
		o.fail("extract", err, "Failed to extract text")
		return err
	}
	defer reader.Close()

	text, err := o.backend.ExtractText(ctx, file.Name, reader)
	if err != nil {
		o.fail("extract", err, "Failed to extract text")
		return err
	}

	o.mu.Lock()
	o.state.ResumeText = text
	o.mu.Unlock()

	o.notifier.Success("Text extracted successfully!")
	return nil
}

// Analyze runs the resume/job comparison and replaces the current result.
// Preconditions never issue a network call.
func (o *Orchestrator) Analyze(ctx context.Context) (err error) {
	o.mu.Lock()
	resumeText := o.state.ResumeText
	jobDescription := o.state.JobDescription
	opts := o.state.Options
	o.mu.Unlock()

	if resumeText == "" || jobDescription == "" {
		return o.invalid("Please provide both resume text and job description")
	}
	if strings.TrimSpace(opts.TargetRole) == "" {
		return o.invalid("Please specify a target role")
	}
	if err := o.begin("analyze"); err != nil {
		return err
	}
	defer func(start time.Time) { o.finish("analyze", start, err) }(time.Now())

	result, err := o.backend.Analyze(ctx, api.AnalyzeParams{
		ResumeText:                 resumeText,
		JobDescription:             jobDescription,
		TargetRole:                 opts.TargetRole,
		Tone:                       string(opts.Tone),
		TemplateID:                 string(opts.TemplateID),
		GenerateCoverLetter:        opts.GenerateCoverLetter,
		GenerateInterviewQuestions: opts.GenerateInterviewQuestions,
		UserID:                     opts.UserID,
	})
	if err != nil {
		o.fail("analyze", err, "Analysis failed")
		return err
	}

	o.mu.Lock()
	o.state.Result = &result
	o.mu.Unlock()

	o.notifier.Success("Analysis completed successfully!")
	return nil
}

// ExportPDF requests a rendered document and hands the validated bytes to
// the saver.
func (o *Orchestrator) ExportPDF(ctx context.Context) (err error) {
	o.mu.Lock()
	resumeText := o.state.ResumeText
	jobDescription := o.state.JobDescription
	opts := o.state.Options
	o.mu.Unlock()

	if resumeText == "" {
		return o.invalid("Please provide resume text to export")
	}
	if opts.GenerateCoverLetter && jobDescription == "" {
		return o.invalid("Please provide a job description to generate a cover letter")
	}
	if err := o.begin("export"); err != nil {
		return err
	}
	defer func(start time.Time) { o.finish("export", start, err) }(time.Now())

	export, err := o.backend.ExportPDF(ctx, api.ExportParams{
		ResumeText:          resumeText,
		JobDescription:      jobDescription,
		Tone:                string(opts.Tone),
		TemplateID:          string(opts.TemplateID),
		GenerateCoverLetter: opts.GenerateCoverLetter,
		UserID:              opts.UserID,
	})
	if err != nil {
		o.fail("export", err, "PDF export failed")
		return err
	}

	if name, err := util.SanitizeDownloadName(export.Filename); err == nil {
		export.Filename = name
	} else {
		export.Filename = fmt.Sprintf("resume_%s_%d.pdf", opts.TemplateID, time.Now().UnixMilli())
	}

	if o.saver != nil {
		if err := o.saver.Save(export); err != nil {
			o.fail("export", err, "Failed to save PDF")
			return err
		}
	}

	o.notifier.Success("PDF exported successfully!")
	return nil
}

// FetchHistory replaces the history list with the backend's view for the
// current user id. An empty or anonymous id is a caller error and never
// issues a network call.
func (o *Orchestrator) FetchHistory(ctx context.Context) (err error) {
	o.mu.Lock()
	userID := o.state.Options.UserID
	o.mu.Unlock()

	if userID == "" || userID == api.AnonymousUserID {
		return o.invalid("Please provide a valid User ID to fetch history")
	}
	if err := o.begin("history"); err != nil {
		return err
	}
	defer func(start time.Time) { o.finish("history", start, err) }(time.Now())

	attempts, err := o.backend.History(ctx, userID)
	if err != nil {
		o.fail("history", err, "Failed to fetch history")
		return err
	}

	o.mu.Lock()
	o.state.History = attempts
	o.mu.Unlock()

	o.notifier.Success("History fetched successfully!")
	return nil
}

// Reset restores defaults and clears everything except history.
func (o *Orchestrator) Reset() {
	o.settings.Stop()

	o.mu.Lock()
	o.historyGen++
	if o.historyTimer != nil {
		o.historyTimer.Stop()
		o.historyTimer = nil
	}
	o.state = State{
		Options: DefaultOptions(),
		History: o.state.History,
	}
	o.mu.Unlock()

	o.notifier.Success("Form reset successfully!")
}

// SetJobDescription replaces the job description immediately.
func (o *Orchestrator) SetJobDescription(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.JobDescription = text
}

// SetTargetRole buffers a target role change behind the settings debounce.
func (o *Orchestrator) SetTargetRole(value string) { o.settings.SetTargetRole(value) }

// SetUserID buffers a user id change behind the settings debounce. A
// committed, qualifying id triggers a history fetch after the settle delay.
func (o *Orchestrator) SetUserID(value string) { o.settings.SetUserID(value) }

// FlushSettings commits any pending debounced values immediately.
func (o *Orchestrator) FlushSettings() { o.settings.Flush() }

// SetTone applies a tone change immediately.
func (o *Orchestrator) SetTone(tone Tone) error {
	if !tone.Valid() {
		return o.invalid(fmt.Sprintf("Unknown tone %q", tone))
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Options.Tone = tone
	return nil
}

// SetTemplateID applies a template change immediately.
func (o *Orchestrator) SetTemplateID(id TemplateID) error {
	if !id.Valid() {
		return o.invalid(fmt.Sprintf("Unknown template %q", id))
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Options.TemplateID = id
	return nil
}

// SetGenerateCoverLetter toggles cover letter generation immediately.
func (o *Orchestrator) SetGenerateCoverLetter(enabled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Options.GenerateCoverLetter = enabled
}

// SetGenerateInterviewQuestions toggles interview question generation
// immediately.
func (o *Orchestrator) SetGenerateInterviewQuestions(enabled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Options.GenerateInterviewQuestions = enabled
}

func (o *Orchestrator) commitTargetRole(value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Options.TargetRole = value
}

func (o *Orchestrator) commitUserID(value string) {
	o.mu.Lock()
	o.state.Options.UserID = value
	o.historyGen++
	gen := o.historyGen
	if o.historyTimer != nil {
		o.historyTimer.Stop()
		o.historyTimer = nil
	}
	qualifies := value != "" && value != api.AnonymousUserID
	if qualifies {
		// Second settle delay past the debounce itself, so a burst of
		// commits produces one fetch for the last id.
		o.historyTimer = time.AfterFunc(o.settle, func() { o.autoFetchHistory(gen) })
	}
	o.mu.Unlock()
}

func (o *Orchestrator) autoFetchHistory(gen uint64) {
	o.mu.Lock()
	stale := gen != o.historyGen
	o.mu.Unlock()
	if stale {
		return
	}
	_ = o.FetchHistory(context.Background())
}

func (o *Orchestrator) begin(op string) error {
	if !o.busy.CompareAndSwap(false, true) {
		telemetry.Warn("workflow.busy", map[string]any{"op": op})
		o.notifier.Warning("Another operation is in progress")
		return ErrBusy
	}
	metrics.IncStarted(op)
	return nil
}

// finish releases the busy flag and records the operation's outcome,
// whether it settled in success or failure.
func (o *Orchestrator) finish(op string, start time.Time, err error) {
	o.busy.Store(false)
	metrics.ObserveDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncFailed(op)
		return
	}
	metrics.IncCompleted(op)
}

func (o *Orchestrator) invalid(message string) error {
	o.notifier.Error(message)
	return &ValidationError{Message: message}
}

func (o *Orchestrator) fail(op string, err error, fallback string) {
	message := api.UserMessage(err, fallback)
	telemetry.Error("workflow."+op+".failed", map[string]any{
		"err":     err.Error(),
		"message": message,
	})
	o.notifier.Error(message)
}
