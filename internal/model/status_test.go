package model

import (
    "testing"

    "github.com/stretchr/testify/require"
)

func TestContentStatusEdges(t *testing.T) {
    cases := []struct {
        from, to ContentStatus
        ok       bool
    }{
        {ContentIdea, ContentDrafted, true},
        {ContentDrafted, ContentProcessing, true},
        {ContentProcessing, ContentProcessed, true},
        {ContentProcessing, ContentDrafted, true}, // 人工回退
        {ContentProcessed, ContentReady, true},
        {ContentReady, ContentScheduled, true},
        {ContentScheduled, ContentPublished, true},
        {ContentScheduled, ContentReady, true}, // 整体重排
        {ContentIdea, ContentPublished, false},
        {ContentPublished, ContentReady, false}, // published 终态
        {ContentReady, ContentDrafted, false},
        {ContentDrafted, ContentReady, false},
    }
    for _, c := range cases {
        require.Equal(t, c.ok, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
    }
}

func TestScheduleStatusEdges(t *testing.T) {
    require.True(t, EntryScheduled.CanTransition(EntryPublishing))
    require.True(t, EntryPublishing.CanTransition(EntryPublished))
    require.True(t, EntryPublishing.CanTransition(EntryFailed))

    require.False(t, EntryScheduled.CanTransition(EntryPublished))
    require.False(t, EntryPublished.CanTransition(EntryScheduled))
    require.False(t, EntryFailed.CanTransition(EntryPublishing))
}

func TestTerminal(t *testing.T) {
    require.True(t, ContentPublished.Terminal())
    require.False(t, ContentScheduled.Terminal())
    require.True(t, EntryPublished.Terminal())
    require.True(t, EntryFailed.Terminal())
    require.False(t, EntryPublishing.Terminal())
}

func TestPlatformListDefaults(t *testing.T) {
    item := &ContentItem{}
    require.Equal(t, AllPlatforms(), item.PlatformList())

    item.Platforms = "twitter"
    require.Equal(t, []string{"twitter"}, item.PlatformList())

    item.Platforms = "twitter, linkedin"
    require.Equal(t, []string{"twitter", "linkedin"}, item.PlatformList())

    entry := &ScheduleEntry{Platforms: ""}
    require.Equal(t, AllPlatforms(), entry.PlatformList())
}
