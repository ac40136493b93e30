package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/studyknots/knotsdocs/internal/config"
	"github.com/studyknots/knotsdocs/internal/eventstore"
	"github.com/studyknots/knotsdocs/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Build string `name:"build" help:"Show the events of one build"`
	Limit int    `name:"limit" help:"Number of builds to list" default:"20"`
	JSON  bool   `name:"json" help:"Print as JSON"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if cfg.History.DBPath == "" {
		return errors.ConfigError("build history is not enabled").
			WithContext("hint", "set history.db_path in the configuration").
			UserAction().
			Build()
	}
	store, err := eventstore.NewSQLiteStore(resolvePath(root.Config, cfg.History.DBPath))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if h.Build != "" {
		events, err := store.GetByBuildID(ctx, h.Build)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return errors.ValidationError("no events recorded for build").
				WithContext("build_id", h.Build).
				Build()
		}
		if h.JSON {
			return writeJSON(g.Out, eventViews(events))
		}
		RenderEvents(g.Out, events)
		return nil
	}

	proj := eventstore.NewBuildHistoryProjection(store, h.Limit)
	if err := proj.Rebuild(ctx); err != nil {
		return err
	}
	builds := proj.GetHistory()
	if h.JSON {
		return writeJSON(g.Out, builds)
	}
	if len(builds) == 0 {
		fmt.Fprintln(g.Out, "No builds recorded")
		return nil
	}
	RenderHistory(g.Out, builds)
	return nil
}

// RenderHistory prints one row per build, newest first.
func RenderHistory(w io.Writer, builds []eventstore.BuildSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Build", "Status", "Trigger", "Started", "Duration", "Docs", "Warnings", "Detail"})
	for _, b := range builds {
		detail := b.Output
		if b.Status == eventstore.StatusFailed {
			detail = fmt.Sprintf("%s: %s", b.ErrorStage, b.ErrorMessage)
		}
		t.AppendRow(table.Row{
			b.BuildID,
			b.Status,
			b.Trigger,
			b.StartedAt.Local().Format(time.DateTime),
			b.Duration.Round(time.Millisecond),
			b.Documents,
			b.Warnings,
			detail,
		})
	}
	t.Render()
}

// RenderEvents prints the events of one build in append order.
func RenderEvents(w io.Writer, events []eventstore.Event) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Type", "Time", "Payload"})
	for _, e := range events {
		t.AppendRow(table.Row{e.ID(), e.Type(), e.Timestamp().Local().Format(time.RFC3339), string(e.Payload())})
	}
	t.Render()
}

type eventView struct {
	ID        int64             `json:"id"`
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   json.RawMessage   `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func eventViews(events []eventstore.Event) []eventView {
	out := make([]eventView, 0, len(events))
	for _, e := range events {
		payload := json.RawMessage(e.Payload())
		if len(payload) == 0 {
			payload = json.RawMessage("null")
		}
		out = append(out, eventView{
			ID:        e.ID(),
			Type:      e.Type(),
			Timestamp: e.Timestamp(),
			Payload:   payload,
			Metadata:  e.Metadata(),
		})
	}
	return out
}
