package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
)

func TestSaveWritesConfigAndEmitsSaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := *model.DefaultAppConfig()

	m := New(path, cfg, 80, 24)
	m.Open()
	m.vals.showResolution = false
	m.vals.mouse = false

	msg := m.save()()
	m, cmd := m.Update(msg)
	require.NotNil(t, cmd)

	saved, ok := cmd().(SavedMsg)
	require.True(t, ok)
	assert.False(t, saved.Config.Display.ShowResolution)
	assert.False(t, saved.Config.Display.Mouse)
	assert.False(t, m.Config().Display.Mouse)

	loaded, err := model.LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, loaded.Display.ShowResolution)
	assert.False(t, loaded.Display.Mouse)
	assert.Equal(t, cfg.Database.Path, loaded.Database.Path)
}

func TestSaveErrorReopensForm(t *testing.T) {
	m := New("unused.yaml", *model.DefaultAppConfig(), 80, 24)
	m.Open()

	m, _ = m.Update(savedInternalMsg{err: errors.New("disk full")})
	assert.Contains(t, m.View(), "disk full")
}

func TestOpenLoadsCurrentValues(t *testing.T) {
	cfg := *model.DefaultAppConfig()
	cfg.Display.Mouse = false

	m := New("unused.yaml", cfg, 80, 24)
	m.Open()
	assert.True(t, m.vals.showResolution)
	assert.False(t, m.vals.mouse)
	assert.Contains(t, m.View(), "Mouse drag and drop")
}
