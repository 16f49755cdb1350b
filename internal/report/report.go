package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"
)

type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusWarning Status = "WARNING"
)

type Step struct {
	Name       string
	Status     Status
	Message    string
	Screenshot string
	Timestamp  time.Time
}

type Summary struct {
	Total    int
	Passed   int
	Failed   int
	Warnings int
	Duration time.Duration
}

// Report collects the steps of one run and renders them as a standalone HTML
// page.
type Report struct {
	RunID     string
	Title     string
	StartedAt time.Time

	steps []Step
	now   func() time.Time
}

func New(runID, title string) *Report {
	return &Report{
		RunID:     runID,
		Title:     title,
		StartedAt: time.Now(),
		now:       time.Now,
	}
}

func (r *Report) Add(name string, status Status, message, screenshot string) {
	r.steps = append(r.steps, Step{
		Name:       name,
		Status:     status,
		Message:    message,
		Screenshot: screenshot,
		Timestamp:  r.now(),
	})
}

func (r *Report) Pass(name, message string) { r.Add(name, StatusPass, message, "") }
func (r *Report) Fail(name, message string) { r.Add(name, StatusFail, message, "") }
func (r *Report) Warn(name, message string) { r.Add(name, StatusWarning, message, "") }

func (r *Report) Steps() []Step {
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

func (r *Report) Summary() Summary {
	s := Summary{Total: len(r.steps), Duration: r.now().Sub(r.StartedAt)}
	for _, step := range r.steps {
		switch step.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusWarning:
			s.Warnings++
		}
	}
	return s
}

// Passed is true when no step failed. Warnings do not fail a run.
func (r *Report) Passed() bool {
	return r.Summary().Failed == 0
}

type stepView struct {
	Step
	Class string
	Link  string
}

type pageView struct {
	Title       string
	RunID       string
	Summary     Summary
	Steps       []stepView
	GeneratedAt time.Time
}

// Generate renders the report to path. The file is written to a temporary
// sibling first and renamed into place.
func (r *Report) Generate(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	view := pageView{
		Title:       r.Title,
		RunID:       r.RunID,
		Summary:     r.Summary(),
		GeneratedAt: r.now(),
	}
	for _, step := range r.steps {
		sv := stepView{Step: step, Class: statusClass(step.Status)}
		if step.Screenshot != "" {
			sv.Link = screenshotLink(dir, step.Screenshot)
		}
		view.Steps = append(view.Steps, sv)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}

	return nil
}

func statusClass(s Status) string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	default:
		return "warning"
	}
}

// screenshotLink makes the screenshot path relative to the report so the
// link survives moving both files together.
func screenshotLink(reportDir, screenshot string) string {
	abs, err := filepath.Abs(screenshot)
	if err != nil {
		return filepath.ToSlash(screenshot)
	}
	base, err := filepath.Abs(reportDir)
	if err != nil {
		return filepath.ToSlash(screenshot)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return filepath.ToSlash(screenshot)
	}
	return filepath.ToSlash(rel)
}

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"seconds": func(d time.Duration) string { return fmt.Sprintf("%.2fs", d.Seconds()) },
	"stamp":   func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Test Execution Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; background-color: #f5f5f5; }
.header { background-color: #333; color: white; padding: 20px; border-radius: 5px; margin-bottom: 20px; }
.summary { display: flex; gap: 20px; margin-bottom: 20px; flex-wrap: wrap; }
.summary-box { background-color: white; padding: 15px; border-radius: 5px; min-width: 150px; }
.summary-label { font-weight: bold; color: #666; font-size: 0.9em; }
.summary-value { font-size: 1.8em; font-weight: bold; margin-top: 5px; }
.pass { color: #28a745; }
.fail { color: #dc3545; }
.warning { color: #ffc107; }
.results { background-color: white; border-radius: 5px; }
.result-item { border-bottom: 1px solid #eee; padding: 15px; display: flex; gap: 15px; }
.status-badge { padding: 5px 10px; border-radius: 3px; font-weight: bold; color: white; min-width: 60px; text-align: center; }
.status-badge.pass { background-color: #28a745; }
.status-badge.fail { background-color: #dc3545; }
.status-badge.warning { background-color: #ffc107; color: black; }
.result-name { font-weight: bold; margin-bottom: 5px; }
.result-message { color: #666; font-size: 0.9em; white-space: pre-wrap; }
.result-timestamp { color: #999; font-size: 0.8em; }
.footer { margin-top: 20px; padding: 15px; background-color: white; text-align: center; color: #666; }
</style>
</head>
<body>
<div class="header">
<h1>Test Execution Report</h1>
<p class="title">{{.Title}}</p>
<p class="run-id">Run {{.RunID}}</p>
</div>
<div class="summary">
<div class="summary-box"><div class="summary-label">Total Steps</div><div class="summary-value" id="total">{{.Summary.Total}}</div></div>
<div class="summary-box"><div class="summary-label">Passed</div><div class="summary-value pass" id="passed">{{.Summary.Passed}}</div></div>
<div class="summary-box"><div class="summary-label">Failed</div><div class="summary-value fail" id="failed">{{.Summary.Failed}}</div></div>
<div class="summary-box"><div class="summary-label">Warnings</div><div class="summary-value warning" id="warnings">{{.Summary.Warnings}}</div></div>
<div class="summary-box"><div class="summary-label">Duration</div><div class="summary-value">{{seconds .Summary.Duration}}</div></div>
</div>
<div class="results">
{{- range .Steps}}
<div class="result-item">
<div class="status-badge {{.Class}}">{{.Status}}</div>
<div class="result-content">
<div class="result-name">{{.Name}}</div>
<div class="result-message">{{.Message}}</div>
<div class="result-timestamp">{{stamp .Timestamp}}</div>
{{- if .Link}}
<a href="{{.Link}}" class="screenshot-link">View Screenshot</a>
{{- end}}
</div>
</div>
{{- end}}
</div>
<div class="footer">
<p>Report generated on {{stamp .GeneratedAt}}</p>
</div>
</body>
</html>
`))
