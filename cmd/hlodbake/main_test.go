package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gekko3d/hlod"
	"github.com/gekko3d/hlod/scene"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadBakeFile(t *testing.T) {
	f, err := os.Open("testdata/village.yaml")
	require.NoError(t, err)
	defer f.Close()

	root, cfg, err := loadBakeFile(f)
	require.NoError(t, err)

	assert.Equal(t, float32(20), cfg.ChunkSize)
	assert.Equal(t, float32(0.5), cfg.MinObjectSize)
	assert.Equal(t, float32(0.3), cfg.LODDistance, "unset values keep their defaults")
	assert.Equal(t, "QuadTree", cfg.SpaceSplitter.Type)
	assert.Equal(t, "Ratio", cfg.Simplifier.Type)
	assert.Equal(t, "JSON", cfg.UserDataSerializer.Type)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Village", root.Name)
	assert.Equal(t, 5, root.ChildCount())

	house := root.Find("house_a")
	require.NotNil(t, house)
	assert.Equal(t, "smith", house.UserData["owner"])
	assert.Equal(t, []string{"brick"}, house.Renderer().Materials)
	assert.Equal(t, scene.ColliderBox, house.Collider().Type)

	flag := root.Find("flag")
	require.NotNil(t, flag)
	require.NotNil(t, flag.LODLimit)
	assert.Equal(t, 0, *flag.LODLimit)
	assert.InDelta(t, 30, flag.LocalToWorld().Col(3).Y(), 1e-4)

	pebble := root.Find("pebble")
	require.NotNil(t, pebble)
	assert.Equal(t, scene.ColliderSphere, pebble.Collider().Type)
}

func TestLoadBakeFile_Errors(t *testing.T) {
	tests := map[string]string{
		"bad vector":     "scene:\n  name: r\n  position: [1, 2]\n",
		"bad mesh":       "scene:\n  name: r\n  children:\n    - name: a\n      mesh: {type: torus}\n",
		"bad collider":   "scene:\n  name: r\n  collider: {type: capsule}\n",
		"bad settings":   "hlod:\n  chunkSize: [1]\nscene:\n  name: r\n",
		"not a document": "- a\n- b\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := loadBakeFile(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestRun_BakesVillage(t *testing.T) {
	dir := t.TempDir()
	conf := config{
		Scene:       "testdata/village.yaml",
		Report:      filepath.Join(dir, "report.json"),
		MetricsFile: filepath.Join(dir, "metrics.prom"),
	}
	require.NoError(t, run(context.Background(), conf, zap.NewNop()))

	data, err := os.ReadFile(conf.Report)
	require.NoError(t, err)
	var r report
	require.NoError(t, json.Unmarshal(data, &r))

	assert.Equal(t, "Village", r.Root)
	require.Len(t, r.Controllers, 1)
	ctrl := r.Controllers[0]
	assert.Equal(t, 5, ctrl.HighObjects)
	// The pebble's leaf is too small to keep a record.
	assert.Len(t, ctrl.Nodes, 7)
	assert.Equal(t, ctrl.LowObjects, len(ctrl.Nodes))
	assert.Equal(t, -1, ctrl.Nodes[0].Parent)
	for _, n := range ctrl.Nodes {
		assert.Positive(t, n.Triangles, n.Name)
	}

	kinds := map[string]int{}
	for _, g := range r.Generated {
		kinds[g.Kind]++
	}
	// Proxies, plus the controller and the user data serializer.
	assert.Equal(t, 7, kinds["object"])
	assert.Equal(t, 2, kinds["component"])

	metrics, err := os.ReadFile(conf.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "hlod_bakes_total")
	assert.Contains(t, string(metrics), "hlod_stage_duration_seconds")
}

func TestRun_ConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	doc := "hlod:\n  streaming:\n    type: Unity\nscene:\n  name: r\n  children:\n    - name: a\n      mesh: {type: cube}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	err := run(context.Background(), config{Scene: path, Destroy: true}, zap.NewNop())
	var cfgErr *hlod.ConfigError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.ErrorIs(t, err, hlod.ErrUnknownCollaborator)
}

func TestRun_MissingScene(t *testing.T) {
	assert.Error(t, run(context.Background(), config{}, zap.NewNop()))
	assert.Error(t, run(context.Background(), config{Scene: "testdata/missing.yaml"}, zap.NewNop()))
}

func TestNewZapLogger(t *testing.T) {
	_, err := newZapLogger(config{LogLevel: "loud"})
	assert.Error(t, err)

	logFile := filepath.Join(t.TempDir(), "bake.log")
	z, err := newZapLogger(config{LogLevel: "debug", LogFile: logFile, LogMaxSize: 1})
	require.NoError(t, err)
	z.Info("baked", zap.Int("roots", 1))
	_ = z.Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"roots":1`)
}
