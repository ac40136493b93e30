package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/studyknots/knotsdocs/internal/config"
	"github.com/studyknots/knotsdocs/internal/diag"
	"github.com/studyknots/knotsdocs/internal/foundation/errors"
	"github.com/studyknots/knotsdocs/internal/site"
)

// TriggerCheck is recorded on builds started by 'check'.
const TriggerCheck = "check"

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	JSON   bool `name:"json" help:"Print the report as JSON"`
	Drafts bool `name:"drafts" help:"Include documents marked draft"`
	Strict bool `name:"strict" help:"Fail when any warning is reported"`
}

// CheckReport is the machine-readable result of a check.
type CheckReport struct {
	BuildID     string    `json:"build_id"`
	Status      string    `json:"status"`
	FailedStage string    `json:"failed_stage,omitempty"`
	Error       string    `json:"error,omitempty"`
	Documents   int       `json:"documents"`
	ContentHash string    `json:"content_hash,omitempty"`
	BundleHash  string    `json:"bundle_hash,omitempty"`
	Diagnostics diag.List `json:"diagnostics"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	res, buildErr := RunBuild(context.Background(), g, root, cfg, site.Options{
		BaseDir:       baseDir(root.Config),
		Trigger:       TriggerCheck,
		IncludeDrafts: c.Drafts,
	})
	if res == nil {
		return buildErr
	}

	report := NewCheckReport(res, buildErr)
	if c.JSON {
		if err := writeJSON(g.Out, report); err != nil {
			return err
		}
	} else {
		RenderDiagnostics(g.Out, report.Diagnostics)
		fmt.Fprintf(g.Out, "%s: %d documents, %d warnings\n", report.Status, report.Documents, res.Warnings())
	}

	if buildErr != nil {
		return buildErr
	}
	if c.Strict && res.Warnings() > 0 {
		return errors.ValidationError("check failed with warnings").
			WithContext("warnings", res.Warnings()).
			Build()
	}
	return nil
}

// NewCheckReport summarizes res. buildErr is the error Run returned, if any.
func NewCheckReport(res *site.Result, buildErr error) CheckReport {
	r := CheckReport{
		BuildID:     res.BuildID,
		Status:      string(res.Status),
		FailedStage: res.FailedStage,
		ContentHash: res.ContentHash,
		BundleHash:  res.BundleHash,
		Diagnostics: res.Diagnostics,
	}
	if r.Diagnostics == nil {
		r.Diagnostics = diag.List{}
	}
	if res.Content != nil {
		r.Documents = res.Content.Len()
	}
	if buildErr != nil {
		r.Error = buildErr.Error()
	}
	return r
}

// RenderDiagnostics prints diags as a table. Nothing is printed for an empty list.
func RenderDiagnostics(w io.Writer, diags diag.List) {
	if len(diags) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Severity", "Code", "Path", "Message"})
	for _, d := range diags {
		t.AppendRow(table.Row{d.Severity.String(), d.Code, d.Path, d.Message})
	}
	t.Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
