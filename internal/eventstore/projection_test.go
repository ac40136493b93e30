package eventstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendAll(t *testing.T, store Store, events ...Event) {
	t.Helper()
	for _, e := range events {
		require.NoError(t, store.Append(context.Background(), e))
	}
}

func TestBuildHistoryProjection_ApplyEvents(t *testing.T) {
	projection := NewBuildHistoryProjection(newStore(t), 10)

	started, err := NewBuildStarted(testBuildID, BuildStartedData{Config: "site.yaml", Trigger: "cli"})
	require.NoError(t, err)
	projection.Apply(started)

	summary, ok := projection.GetBuild(testBuildID)
	require.True(t, ok)
	assert.Equal(t, StatusRunning, summary.Status)
	assert.Equal(t, "cli", summary.Trigger)

	nav, err := NewNavigationBuilt(testBuildID, NavigationBuiltData{Documents: 30, Sidebars: 1})
	require.NoError(t, err)
	projection.Apply(nav)

	page, err := NewPageComposed(testBuildID, []string{"hero", "stats"})
	require.NoError(t, err)
	projection.Apply(page)

	completed, err := NewBuildCompleted(testBuildID, BuildCompletedData{Documents: 30, Warnings: 1, Output: "build", BundleHash: "h"})
	require.NoError(t, err)
	projection.Apply(completed)

	summary, _ = projection.GetBuild(testBuildID)
	assert.Equal(t, StatusCompleted, summary.Status)
	require.NotNil(t, summary.CompletedAt)
	assert.Equal(t, 30, summary.Documents)
	assert.Equal(t, 1, summary.Sidebars)
	assert.Equal(t, []string{"hero", "stats"}, summary.Sections)
	assert.Equal(t, "h", summary.BundleHash)

	history := projection.GetHistory()
	require.Len(t, history, 1)
	assert.Equal(t, testBuildID, history[0].BuildID)
}

func TestBuildHistoryProjection_Failed(t *testing.T) {
	projection := NewBuildHistoryProjection(newStore(t), 10)

	started, _ := NewBuildStarted("b", BuildStartedData{})
	failed, err := NewBuildFailed("b", BuildFailedData{Stage: "home", Error: "malformed section"})
	require.NoError(t, err)
	projection.Apply(started)
	projection.Apply(failed)

	last, ok := projection.GetLastCompletedBuild()
	require.True(t, ok)
	assert.Equal(t, StatusFailed, last.Status)
	assert.Equal(t, "home", last.ErrorStage)
	assert.Equal(t, "malformed section", last.ErrorMessage)
}

func TestBuildHistoryProjection_RebuildFromStore(t *testing.T) {
	store := newStore(t)
	base := time.Now().Add(-time.Minute)

	for i, id := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Second)
		appendAll(t, store,
			&BaseEvent{EventBuildID: id, EventType: TypeBuildStarted, EventTimestamp: at, EventPayload: []byte(`{}`)},
			&BaseEvent{EventBuildID: id, EventType: TypeBuildCompleted, EventTimestamp: at.Add(100 * time.Millisecond), EventPayload: []byte(`{"documents":1}`)},
		)
	}
	appendAll(t, store, &BaseEvent{EventBuildID: "running", EventType: TypeBuildStarted, EventTimestamp: base.Add(10 * time.Second), EventPayload: []byte(`{}`)})

	projection := NewBuildHistoryProjection(store, 2)
	require.NoError(t, projection.Rebuild(context.Background()))

	history := projection.GetHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "third", history[0].BuildID)
	assert.Equal(t, "second", history[1].BuildID)
	assert.Equal(t, 100*time.Millisecond, history[0].Duration)

	_, ok := projection.GetBuild("first")
	assert.False(t, ok, "pruned builds are dropped")
	running, ok := projection.GetBuild("running")
	require.True(t, ok)
	assert.Equal(t, StatusRunning, running.Status)
	assert.False(t, projection.LastSyncTime().IsZero())
}
