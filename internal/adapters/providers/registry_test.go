package providers

import (
	"context"
	"testing"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{ name string }

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) Identity(context.Context) (Identity, error) {
	return Identity{Username: "dev"}, nil
}

func (s stubProvider) FetchEvents(context.Context, FetchOptions) ([]worklog.ActivityEvent, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(nil)

	require.NoError(t, r.Register(stubProvider{name: "gitlab"}))
	require.NoError(t, r.Register(stubProvider{name: "github"}))

	t.Run("duplicate registration fails", func(t *testing.T) {
		assert.Error(t, r.Register(stubProvider{name: "gitlab"}))
	})

	t.Run("get", func(t *testing.T) {
		p, err := r.Get("github")
		require.NoError(t, err)
		assert.Equal(t, "github", p.Name())
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := r.Get("bitbucket")
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("list is sorted", func(t *testing.T) {
		assert.Equal(t, []string{"github", "gitlab"}, r.List())
	})
}
