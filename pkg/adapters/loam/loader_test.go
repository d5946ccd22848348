package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/optionsbot/internal/testutils"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/ports/tests"
)

func TestLibrary_Contract(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()

	sources := map[string]string{
		"fail-fast": "[]{c_1: fail()}",
		"unicorn":   "[]{c_1: ipo(100 - 200 share)}",
	}

	docs := []core.Document{
		{ID: "fail-fast.md", Content: "---\nname: fail-fast\n---\n[]{c_1: fail()}\n"},
		{ID: "unicorn.md", Content: "---\ntitle: Unicorn\n---\n[]{c_1: ipo(100 - 200 share)}\n"},
	}
	for _, doc := range docs {
		require.NoError(t, repo.Save(ctx, doc))
	}

	lib := New(loam.NewTypedRepository[ScenarioMetadata](repo))
	tests.ScenarioLibraryContractTest(t, lib, sources)
}

func TestLibrary_Metadata(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, core.Document{
		ID: "series-a.md",
		Content: `---
name: series-a
title: Series A
description: One funding round before the exit
trials: 2500
---
[]{c_1: fail()}
`,
	}))

	lib := New(loam.NewTypedRepository[ScenarioMetadata](repo))
	s, err := lib.Get(ctx, "series-a")
	require.NoError(t, err)

	assert.Equal(t, "series-a", s.Name)
	assert.Equal(t, "Series A", s.Title)
	assert.Equal(t, "One funding round before the exit", s.Description)
	assert.Equal(t, 2500, s.Trials)
	assert.Equal(t, "[]{c_1: fail()}", s.Source)
}

func TestLibrary_SaveRoundTrip(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()
	lib := New(loam.NewTypedRepository[ScenarioMetadata](repo))

	want := &domain.Scenario{Name: "sample", Title: "Sample", Trials: 100, Source: testutils.SampleProgram}
	require.NoError(t, lib.Save(ctx, want))

	got, err := lib.Get(ctx, "sample")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	names, err := lib.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sample"}, names)

	assert.Error(t, lib.Save(ctx, &domain.Scenario{Source: "[]{}"}))
}

func TestLibrary_ListCollision(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, core.Document{ID: "a.md", Content: "---\nname: same\n---\n[]{}"}))
	require.NoError(t, repo.Save(ctx, core.Document{ID: "b.md", Content: "---\nname: same\n---\n[]{}"}))

	lib := New(loam.NewTypedRepository[ScenarioMetadata](repo))
	_, err := lib.List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}
