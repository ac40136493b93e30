package eventstore

import (
	"encoding/json"
	"time"

	"github.com/studyknots/knotsdocs/internal/foundation/errors"
)

// Event type names.
const (
	TypeBuildStarted    = "BuildStarted"
	TypeNavigationBuilt = "NavigationBuilt"
	TypePageComposed    = "PageComposed"
	TypeBuildCompleted  = "BuildCompleted"
	TypeBuildFailed     = "BuildFailed"
)

// BuildStartedData describes the inputs of a build.
type BuildStartedData struct {
	Config  string `json:"config"`
	Site    string `json:"site"`
	DocsDir string `json:"docs_dir"`
	Trigger string `json:"trigger,omitempty"` // cli, preview, poll
}

// NavigationBuiltData summarizes the navigation model.
type NavigationBuiltData struct {
	Documents     int `json:"documents"`
	Sidebars      int `json:"sidebars"`
	SidebarItems  int `json:"sidebar_items"`
	NavbarEntries int `json:"navbar_entries"`
	FooterColumns int `json:"footer_columns"`
	Warnings      int `json:"warnings"`
}

// PageComposedData lists the composed landing page sections in order.
type PageComposedData struct {
	Sections []string `json:"sections"`
}

// BuildCompletedData describes a successful build.
type BuildCompletedData struct {
	Documents   int           `json:"documents"`
	Warnings    int           `json:"warnings"`
	Output      string        `json:"output,omitempty"` // empty for check-only builds
	BundleHash  string        `json:"bundle_hash"`
	ContentHash string        `json:"content_hash"`
	Duration    time.Duration `json:"-"` // encoded as duration_ms
}

// BuildFailedData records where and why a build stopped.
type BuildFailedData struct {
	Stage    string `json:"stage"`
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
}

// BuildStarted is emitted when a build begins.
type BuildStarted struct {
	BaseEvent
	Data BuildStartedData
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID string, data BuildStartedData) (*BuildStarted, error) {
	base, err := newBase(buildID, TypeBuildStarted, data)
	if err != nil {
		return nil, err
	}
	return &BuildStarted{BaseEvent: base, Data: data}, nil
}

// NavigationBuilt is emitted after the navigation model validated.
type NavigationBuilt struct {
	BaseEvent
	Data NavigationBuiltData
}

// NewNavigationBuilt creates a NavigationBuilt event.
func NewNavigationBuilt(buildID string, data NavigationBuiltData) (*NavigationBuilt, error) {
	base, err := newBase(buildID, TypeNavigationBuilt, data)
	if err != nil {
		return nil, err
	}
	return &NavigationBuilt{BaseEvent: base, Data: data}, nil
}

// PageComposed is emitted after the landing page composed.
type PageComposed struct {
	BaseEvent
	Data PageComposedData
}

// NewPageComposed creates a PageComposed event.
func NewPageComposed(buildID string, sections []string) (*PageComposed, error) {
	data := PageComposedData{Sections: sections}
	base, err := newBase(buildID, TypePageComposed, data)
	if err != nil {
		return nil, err
	}
	return &PageComposed{BaseEvent: base, Data: data}, nil
}

// BuildCompleted is emitted when a build completes successfully.
type BuildCompleted struct {
	BaseEvent
	Data BuildCompletedData
}

// NewBuildCompleted creates a BuildCompleted event.
func NewBuildCompleted(buildID string, data BuildCompletedData) (*BuildCompleted, error) {
	payload := struct {
		BuildCompletedData
		Duration int64 `json:"duration_ms"`
	}{data, data.Duration.Milliseconds()}
	base, err := newBase(buildID, TypeBuildCompleted, payload)
	if err != nil {
		return nil, err
	}
	return &BuildCompleted{BaseEvent: base, Data: data}, nil
}

// BuildFailed is emitted when a build fails.
type BuildFailed struct {
	BaseEvent
	Data BuildFailedData
}

// NewBuildFailed creates a BuildFailed event.
func NewBuildFailed(buildID string, data BuildFailedData) (*BuildFailed, error) {
	base, err := newBase(buildID, TypeBuildFailed, data)
	if err != nil {
		return nil, err
	}
	return &BuildFailed{BaseEvent: base, Data: data}, nil
}

func newBase(buildID, eventType string, data any) (BaseEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return BaseEvent{}, errors.EventStoreError("failed to marshal "+eventType+" payload").
			WithCause(err).
			WithContext("build_id", buildID).
			Build()
	}
	return BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now().UTC(),
		EventPayload:   payload,
	}, nil
}
