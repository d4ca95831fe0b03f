package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/config"
	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/logging"
)

func TestNewClients_NothingConfigured(t *testing.T) {
	cfg := config.Default()

	c, err := NewClients(cfg, logging.Discard())
	require.NoError(t, err)

	assert.Empty(t, c.Activity.List())
	assert.Nil(t, c.Ledger)

	err = c.RequireLedger(cfg)
	assert.ErrorIs(t, err, ErrLedgerNotConfigured)
	assert.ErrorIs(t, err, config.ErrMissingTogglToken)

	_, err = c.RequireActivity("gitlab")
	assert.ErrorIs(t, err, config.ErrMissingGitLabToken)
	_, err = c.RequireActivity("github")
	assert.ErrorIs(t, err, config.ErrMissingGitHubToken)
	_, err = c.RequireActivity("jira")
	assert.Error(t, err)
}

func TestNewClients_AllConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.GitLab.Token = "glpat-test"
	cfg.GitHub.Token = "ghp_test"
	cfg.Toggl.APIToken = "toggl-test"
	cfg.Toggl.WorkspaceID = 42

	c, err := NewClients(cfg, logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, []string{"github", "gitlab"}, c.Activity.List())
	require.NotNil(t, c.Ledger)
	assert.Equal(t, "toggl", c.Ledger.Name())
	assert.NoError(t, c.RequireLedger(cfg))

	p, err := c.RequireActivity("gitlab")
	require.NoError(t, err)
	assert.Equal(t, "gitlab", p.Name())
}

func TestNewClients_TogglWithoutWorkspace(t *testing.T) {
	cfg := config.Default()
	cfg.Toggl.APIToken = "toggl-test"

	c, err := NewClients(cfg, logging.Discard())
	require.NoError(t, err)

	assert.Nil(t, c.Ledger)
	assert.ErrorIs(t, c.RequireLedger(cfg), config.ErrMissingWorkspace)
}

func TestNewClients_InvalidGitHubURL(t *testing.T) {
	cfg := config.Default()
	cfg.GitHub.Token = "ghp_test"
	cfg.GitHub.BaseURL = "://bad"

	_, err := NewClients(cfg, logging.Discard())
	assert.Error(t, err)
}
