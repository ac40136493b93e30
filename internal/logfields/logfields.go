package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names shared by the build pipeline and the CLI.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyConfig     = "config"
	KeySidebar    = "sidebar"
	KeyDocID      = "doc_id"
	KeyRoute      = "route"
	KeyPath       = "path"
	KeySection    = "section"
	KeyCount      = "count"
	KeyOutput     = "output"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Config(path string) slog.Attr     { return slog.String(KeyConfig, path) }
func Sidebar(name string) slog.Attr    { return slog.String(KeySidebar, name) }
func DocID(id string) slog.Attr        { return slog.String(KeyDocID, id) }
func Route(r string) slog.Attr         { return slog.String(KeyRoute, r) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Section(kind string) slog.Attr    { return slog.String(KeySection, kind) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Output(dir string) slog.Attr      { return slog.String(KeyOutput, dir) }

// Duration reports d in fractional milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
