// Package eventstore records build events in SQLite and projects them into a
// build history.
package eventstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// Build statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// BuildSummary is a read model summarizing a completed or in-progress build.
type BuildSummary struct {
	BuildID      string        `json:"build_id"`
	Status       string        `json:"status"`
	Trigger      string        `json:"trigger,omitempty"`
	Config       string        `json:"config,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Documents    int           `json:"documents"`
	Sidebars     int           `json:"sidebars"`
	Sections     []string      `json:"sections,omitempty"`
	Warnings     int           `json:"warnings"`
	Output       string        `json:"output,omitempty"`
	BundleHash   string        `json:"bundle_hash,omitempty"`
	ErrorStage   string        `json:"error_stage,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// BuildHistoryProjection maintains an in-memory view of build history,
// reconstructed from events stored in the event store.
type BuildHistoryProjection struct {
	mu       sync.RWMutex
	store    Store
	builds   map[string]*BuildSummary
	history  []*BuildSummary // finished builds, newest first
	maxSize  int
	lastSync time.Time
}

// NewBuildHistoryProjection creates a new projection backed by the given store.
func NewBuildHistoryProjection(store Store, maxHistorySize int) *BuildHistoryProjection {
	if maxHistorySize <= 0 {
		maxHistorySize = 100
	}
	return &BuildHistoryProjection{
		store:   store,
		builds:  make(map[string]*BuildSummary),
		history: make([]*BuildSummary, 0, maxHistorySize),
		maxSize: maxHistorySize,
	}
}

// Rebuild reconstructs the projection from all events in the store.
func (p *BuildHistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.builds = make(map[string]*BuildSummary)
	p.history = make([]*BuildSummary, 0, p.maxSize)
	for _, event := range events {
		p.applyEventLocked(event)
	}

	sort.SliceStable(p.history, func(i, j int) bool {
		return p.history[i].StartedAt.After(p.history[j].StartedAt)
	})
	if len(p.history) > p.maxSize {
		p.history = p.history[:p.maxSize]
	}
	p.pruneBuildsLocked()

	p.lastSync = time.Now()
	return nil
}

// Apply processes a single event and updates the projection.
func (p *BuildHistoryProjection) Apply(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyEventLocked(event)
}

func (p *BuildHistoryProjection) applyEventLocked(event Event) {
	buildID := event.BuildID()
	if buildID == "" {
		return
	}

	summary, exists := p.builds[buildID]
	if !exists {
		summary = &BuildSummary{
			BuildID:   buildID,
			Status:    StatusRunning,
			StartedAt: event.Timestamp(),
		}
		p.builds[buildID] = summary
	}

	switch event.Type() {
	case TypeBuildStarted:
		summary.StartedAt = event.Timestamp()
		summary.Status = StatusRunning
		var data BuildStartedData
		if err := json.Unmarshal(event.Payload(), &data); err == nil {
			summary.Trigger = data.Trigger
			summary.Config = data.Config
		}

	case TypeNavigationBuilt:
		var data NavigationBuiltData
		if err := json.Unmarshal(event.Payload(), &data); err == nil {
			summary.Documents = data.Documents
			summary.Sidebars = data.Sidebars
		}

	case TypePageComposed:
		var data PageComposedData
		if err := json.Unmarshal(event.Payload(), &data); err == nil {
			summary.Sections = data.Sections
		}

	case TypeBuildCompleted:
		p.finishLocked(summary, event.Timestamp(), StatusCompleted)
		var data BuildCompletedData
		if err := json.Unmarshal(event.Payload(), &data); err == nil {
			summary.Documents = data.Documents
			summary.Warnings = data.Warnings
			summary.Output = data.Output
			summary.BundleHash = data.BundleHash
		}

	case TypeBuildFailed:
		p.finishLocked(summary, event.Timestamp(), StatusFailed)
		var data BuildFailedData
		if err := json.Unmarshal(event.Payload(), &data); err == nil {
			summary.ErrorStage = data.Stage
			summary.ErrorMessage = data.Error
		}
	}
}

func (p *BuildHistoryProjection) finishLocked(summary *BuildSummary, at time.Time, status string) {
	summary.CompletedAt = &at
	summary.Duration = at.Sub(summary.StartedAt)
	summary.Status = status

	for _, h := range p.history {
		if h.BuildID == summary.BuildID {
			return
		}
	}
	p.history = append([]*BuildSummary{summary}, p.history...)
	if len(p.history) > p.maxSize {
		p.history = p.history[:p.maxSize]
	}
	p.pruneBuildsLocked()
}

// pruneBuildsLocked removes finished builds that fell out of the bounded history.
// Caller must hold p.mu (write lock).
func (p *BuildHistoryProjection) pruneBuildsLocked() {
	keep := make(map[string]struct{}, len(p.history))
	for _, h := range p.history {
		keep[h.BuildID] = struct{}{}
	}
	for id, summary := range p.builds {
		if summary.Status == StatusRunning {
			continue
		}
		if _, ok := keep[id]; !ok {
			delete(p.builds, id)
		}
	}
}

// GetHistory returns copies of the finished builds, newest first.
func (p *BuildHistoryProjection) GetHistory() []BuildSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]BuildSummary, len(p.history))
	for i, h := range p.history {
		result[i] = *h
	}
	return result
}

// GetBuild returns the summary for a specific build.
func (p *BuildHistoryProjection) GetBuild(buildID string) (BuildSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	summary, exists := p.builds[buildID]
	if !exists {
		return BuildSummary{}, false
	}
	return *summary, true
}

// GetLastCompletedBuild returns the most recently finished build, successful or not.
func (p *BuildHistoryProjection) GetLastCompletedBuild() (BuildSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.history) == 0 {
		return BuildSummary{}, false
	}
	return *p.history[0], true
}

// LastSyncTime returns when the projection was last synchronized.
func (p *BuildHistoryProjection) LastSyncTime() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSync
}
