package hlod_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/hlod"
	_ "github.com/gekko3d/hlod/batch"
	"github.com/gekko3d/hlod/scene"
	_ "github.com/gekko3d/hlod/simplify"
	"github.com/gekko3d/hlod/streaming"
	"github.com/gekko3d/hlod/userdata"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"
)

// town builds a root with two clusters of houses, far apart on X.
func town() *scene.Object {
	root := scene.NewObject("Town")
	for cluster, x := range []float32{-100, 100} {
		for i := 0; i < 4; i++ {
			house := scene.NewObject(fmt.Sprintf("house_%d_%d", cluster, i))
			house.Transform.Position = mgl32.Vec3{x + float32(i%2)*12 - 6, 0, float32(i/2)*12 - 6}
			house.SetRenderer(&scene.MeshRenderer{Mesh: scene.Sphere(2, 8, 16), Materials: []string{"brick"}})
			house.SetCollider(&scene.Collider{Type: scene.ColliderBox, Size: mgl32.Vec3{4, 4, 4}})
			house.UserData = map[string]string{"cluster": fmt.Sprint(cluster)}
			root.AddChild(house)
		}
	}
	return root
}

func loadConfig(t *testing.T, doc string) hlod.Config {
	t.Helper()
	cfg := hlod.DefaultConfig()
	require.NoError(t, yaml.Unmarshal([]byte(doc), &cfg))
	return cfg
}

func TestBake_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := loadConfig(t, fmt.Sprintf(`
chunkSize: 10
simplifier:
  type: Ratio
  options:
    polygonRatio: 0.5
batcher:
  type: Simple
streaming:
  type: InMemory
  options:
    outputDir: %s
    packHighObjects: true
userDataSerializer:
  type: JSON
  options:
    path: %s
`, filepath.Join(dir, "meshes"), filepath.Join(dir, "userdata.json")))

	root := town()
	h := hlod.New(root, cfg)
	core, logs := observer.New(zap.DebugLevel)
	h.Logger = hlod.NewLogger(zap.New(core), true)
	h.Pool = scene.NewPool(0)

	require.NoError(t, hlod.Create(context.Background(), h))
	assert.True(t, h.Dirty())
	assert.Equal(t, int64(0), h.Pool.LiveArenas())
	assert.Equal(t, int64(0), h.Pool.InUse())
	assert.NotZero(t, logs.FilterMessageSnippet("Total time elapsed").Len())

	controllers := h.Controllers()
	require.Len(t, controllers, 1)
	ctrl, ok := controllers[0].(*streaming.Controller)
	require.True(t, ok)
	assert.Equal(t, 8, ctrl.HighObjectCount())
	assert.Equal(t, len(ctrl.Nodes()), ctrl.LowObjectCount())
	assert.Empty(t, ctrl.AlwaysHigh())

	// Every proxy is lighter than the sources it replaces.
	rootLow := ctrl.LowObject(ctrl.Nodes()[0].LowIndex)
	assert.Equal(t, "Town_low", rootLow.Name)
	assert.Less(t, rootLow.Renderer().Mesh.TriangleCount(), 8*scene.Sphere(2, 8, 16).TriangleCount())
	for i := 0; i < ctrl.LowObjectCount(); i++ {
		assert.FileExists(t, ctrl.LowObject(i).Renderer().Mesh.Name)
	}

	serializer, ok := ctrl.UserDataSerializer().(*userdata.Serializer)
	require.True(t, ok)
	assert.Len(t, serializer.Records(), 8)
	assert.FileExists(t, filepath.Join(dir, "userdata.json"))
	assert.Equal(t, "Town_house_0_0.prefab", root.Find("house_0_0").Prefab)

	// Sources, proxies.
	sources := 8
	assert.Equal(t, sources+ctrl.LowObjectCount(), root.ChildCount())

	require.NoError(t, hlod.Destroy(context.Background(), h))
	assert.Equal(t, sources, root.ChildCount())
	assert.Empty(t, root.Components())
	assert.Empty(t, root.Find("house_0_0").Prefab)
	assert.NoFileExists(t, filepath.Join(dir, "userdata.json"))
	entries, err := os.ReadDir(filepath.Join(dir, "meshes"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBake_SubTrees(t *testing.T) {
	cfg := loadConfig(t, `
chunkSize: 10
spaceSplitter:
  type: QuadTree
  options:
    subTreeSize: 50
`)
	root := town()
	h := hlod.New(root, cfg)

	require.NoError(t, hlod.Create(context.Background(), h))

	controllers := h.Controllers()
	require.Len(t, controllers, 2)
	for i, c := range controllers {
		sc := c.(*streaming.Controller)
		assert.Equal(t, i, sc.RootIndex)
		assert.Equal(t, 4, sc.HighObjectCount())
	}

	container := root.Find("Town_SubTree1")
	require.NotNil(t, container)
	assert.True(t, container.Generated)
	assert.Same(t, root, container.Parent())
	low := container.Find("Town_SubTree1_low")
	require.NotNil(t, low)
	assert.False(t, low.Active)

	// Baking again replaces the previous output instead of stacking on it.
	require.NoError(t, hlod.Destroy(context.Background(), h))
	require.NoError(t, hlod.Create(context.Background(), h))
	assert.Len(t, h.Controllers(), 2)
	assert.Equal(t, 10, root.ChildCount())
}

func TestBake_WorkingMemoryBudget(t *testing.T) {
	cfg := loadConfig(t, `
chunkSize: 10
workingMemoryBudget: 512
`)
	h := hlod.New(town(), cfg)

	err := hlod.Create(context.Background(), h)
	require.ErrorIs(t, err, scene.ErrOutOfWorkingMemory)
	assert.Equal(t, int64(0), h.Pool.LiveArenas())
	assert.Zero(t, len(h.Controllers()))
}
