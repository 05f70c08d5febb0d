package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"

	"resume-client/internal/api"
	"resume-client/internal/ingest"
	"resume-client/internal/notify"
	"resume-client/internal/shared/config"
	"resume-client/internal/shared/metrics"
	"resume-client/internal/shared/telemetry"
	"resume-client/internal/workflow"
)

// fileSaver writes validated exports into the configured output directory.
type fileSaver struct {
	dir string
}

func (s fileSaver) Save(export api.Export) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, export.Filename), export.Bytes, 0o644)
}

func main() {
	cfg := config.Load()

	center := notify.NewCenter(cfg.NotificationTTL)
	orchestrator := workflow.New(workflow.Config{
		Backend:          api.NewClient(cfg.BackendURL, nil),
		Notifier:         center,
		Saver:            fileSaver{dir: cfg.OutputDir},
		SettingsDebounce: cfg.SettingsDebounce,
		HistorySettle:    cfg.HistorySettle,
	})
	defer orchestrator.Close()

	telemetry.Info("cli.start", map[string]any{
		"backend_url": cfg.BackendURL,
		"output_dir":  cfg.OutputDir,
		"env":         cfg.Env,
	})
	fmt.Printf("resume-client connected to %s\n", cfg.BackendURL)
	fmt.Println(`Type "help" for commands.`)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		command, arg := splitCommand(line)
		if command == "quit" || command == "exit" {
			break
		}
		run(orchestrator, command, arg)
		printNotification(center)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("stdin error: %v", err)
	}
}

func run(o *workflow.Orchestrator, command, arg string) {
	ctx := context.Background()
	switch command {
	case "help":
		printHelp()
	case "open":
		if arg == "" {
			fmt.Println("usage: open <path>")
			return
		}
		candidate, err := candidateFromPath(arg)
		if err != nil {
			fmt.Printf("cannot open %s: %v\n", arg, err)
			return
		}
		_ = o.SelectFile(candidate)
	case "extract":
		_ = o.Extract(ctx)
	case "jd":
		o.SetJobDescription(arg)
	case "role":
		o.SetTargetRole(arg)
		o.FlushSettings()
	case "user":
		o.SetUserID(arg)
		o.FlushSettings()
	case "tone":
		_ = o.SetTone(workflow.Tone(arg))
	case "template":
		_ = o.SetTemplateID(workflow.TemplateID(arg))
	case "cover":
		o.SetGenerateCoverLetter(arg == "on")
	case "questions":
		o.SetGenerateInterviewQuestions(arg == "on")
	case "analyze":
		if err := o.Analyze(ctx); err == nil {
			printResult(o)
		}
	case "export":
		_ = o.ExportPDF(ctx)
	case "history":
		if err := o.FetchHistory(ctx); err == nil {
			printHistory(o)
		}
	case "state":
		printState(o)
	case "metrics":
		fmt.Print(metrics.Render())
	case "reset":
		o.Reset()
	default:
		fmt.Printf("unknown command %q; type \"help\"\n", command)
	}
}

func candidateFromPath(path string) (ingest.Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ingest.Candidate{}, err
	}
	return ingest.Candidate{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MimeHint: mime.TypeByExtension(filepath.Ext(path)),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func printNotification(center *notify.Center) {
	if n, ok := center.Current(); ok {
		fmt.Printf("[%s] %s\n", n.Severity, n.Message)
	}
}

func printState(o *workflow.Orchestrator) {
	state := o.Snapshot()
	if state.File != nil {
		fmt.Printf("file:            %s (%s)\n", state.File.Name, units.BytesSize(float64(state.File.Size)))
	} else {
		fmt.Println("file:            none")
	}
	fmt.Printf("resume text:     %d chars\n", len(state.ResumeText))
	fmt.Printf("job description: %d chars\n", len(state.JobDescription))
	opts := state.Options
	fmt.Printf("target role:     %q\n", opts.TargetRole)
	fmt.Printf("user id:         %q\n", opts.UserID)
	fmt.Printf("tone:            %s\n", opts.Tone)
	fmt.Printf("template:        %s\n", opts.TemplateID)
	fmt.Printf("cover letter:    %v\n", opts.GenerateCoverLetter)
	fmt.Printf("questions:       %v\n", opts.GenerateInterviewQuestions)
	fmt.Printf("busy:            %v\n", o.Busy())
}

func printResult(o *workflow.Orchestrator) {
	result := o.Snapshot().Result
	if result == nil {
		return
	}
	fmt.Printf("match: %.0f%%\n", result.MatchPercentage)
	if len(result.Skills) > 0 {
		fmt.Printf("skills: %s\n", strings.Join(result.Skills, ", "))
	}
	if len(result.MissingSkills) > 0 {
		fmt.Printf("missing: %s\n", strings.Join(result.MissingSkills, ", "))
	}
	for _, s := range result.Suggestions {
		fmt.Printf("  - %s\n", s)
	}
	if result.CoverLetter != "" {
		fmt.Printf("\ncover letter:\n%s\n", result.CoverLetter)
	}
	for i, q := range result.InterviewQuestions {
		fmt.Printf("%d. %s\n", i+1, q)
	}
}

func printHistory(o *workflow.Orchestrator) {
	history := o.Snapshot().History
	if len(history) == 0 {
		fmt.Println("no analysis history found")
		return
	}
	for i, attempt := range history {
		match := "N/A"
		if attempt.AnalysisResult != nil {
			match = fmt.Sprintf("%.0f%%", attempt.AnalysisResult.MatchPercentage)
		}
		role := attempt.TargetRole
		if role == "" {
			role = "Unknown Role"
		}
		fmt.Printf("#%d %s match | %s, %s template, %s\n",
			i+1, match, role, attempt.TemplateID, attempt.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

func splitCommand(line string) (string, string) {
	parts := strings.SplitN(line, " ", 2)
	command := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return command, ""
	}
	return command, strings.TrimSpace(parts[1])
}

func printHelp() {
	fmt.Print(`commands:
  open <path>        select a resume file (.pdf or .docx, max 10MiB)
  extract            extract text from the selected file
  jd <text>          set the job description
  role <text>        set the target role
  user <id>          set the user id (empty means anonymous)
  tone <v>           formal | friendly | technical | casual
  template <v>       modern | classic | professional
  cover on|off       toggle cover letter generation
  questions on|off   toggle interview question generation
  analyze            run the resume/job analysis
  export             export the tailored resume as PDF
  history            fetch prior attempts for the current user id
  state              show workflow state
  metrics            show operation counters
  reset              clear everything except history
  quit               exit
`)
}
