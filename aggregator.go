package hlod

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/gekko3d/hlod/scene"
	"github.com/gekko3d/hlod/space"
	"golang.org/x/sync/errgroup"
)

type travelQueueItem struct {
	node      *space.SpaceNode
	parent    int
	name      string
	level     int
	targets   []*scene.Object
	distances []int
}

// BuildInfos flattens the tree under root breadth first and returns one
// record per node that ends up with at least one working object.
//
// Every node receives its own objects at distance 0 and the objects of each
// descendant at the number of levels between them. Record levels are
// inverted so that the deepest nodes get level 0. Parent indices of the
// result always point to an earlier surviving record or -1.
func BuildInfos(ctx context.Context, root *space.SpaceNode, minObjectSize float32, pool *scene.Pool) (BuildInfoList, error) {
	items := flatten(root)

	maxLevel := 0
	for _, item := range items {
		maxLevel = max(maxLevel, item.level)
	}

	candidates := make(BuildInfoList, len(items))
	for i, item := range items {
		candidates[i] = &BuildInfo{
			Name:        item.name,
			ParentIndex: item.parent,
			Target:      item.node,
			Level:       maxLevel - item.level,
			Arena:       pool.NewArena(),
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range items {
		item, info := items[i], candidates[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := extract(info, item, minObjectSize); err != nil {
				return fmt.Errorf("extract %q: %w", displayName(info.Name), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		candidates.Dispose()
		return nil, err
	}

	return prune(candidates), nil
}

func flatten(root *space.SpaceNode) []*travelQueueItem {
	var items []*travelQueueItem
	queue := []*travelQueueItem{{node: root, parent: -1}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		current := len(items)

		for i, child := range item.node.Children() {
			queue = append(queue, &travelQueueItem{
				node:   child,
				parent: current,
				level:  item.level + 1,
				name:   item.name + "_" + strconv.Itoa(i+1),
			})
		}

		items = append(items, item)
		objects := item.node.Objects
		item.targets = append(item.targets, objects...)
		item.distances = append(item.distances, repeat(0, len(objects))...)

		distance := 1
		for p := item.parent; p >= 0; p = items[p].parent {
			parent := items[p]
			parent.targets = append(parent.targets, objects...)
			parent.distances = append(parent.distances, repeat(distance, len(objects))...)
			distance++
		}
	}
	return items
}

func extract(info *BuildInfo, item *travelQueueItem, minObjectSize float32) error {
	for ti, target := range item.targets {
		distance := item.distances[ti]
		for _, r := range scene.GetMeshRenderers(target, minObjectSize, info.Level) {
			wo, err := r.ToWorkingObject(info.Arena)
			if err != nil {
				return err
			}
			info.WorkingObjects = append(info.WorkingObjects, wo)
			info.Distances = append(info.Distances, distance)
		}
	}

	for _, c := range scene.GetColliders(item.targets, minObjectSize) {
		info.Colliders = append(info.Colliders, c.ToWorkingCollider())
	}
	return nil
}

// prune drops records without working objects, releasing them right away,
// and remaps parents to the closest surviving ancestor.
func prune(candidates BuildInfoList) BuildInfoList {
	remap := make([]int, len(candidates))
	results := make(BuildInfoList, 0, len(candidates))

	for i, info := range candidates {
		parent := -1
		if info.ParentIndex >= 0 {
			parent = remap[info.ParentIndex]
		}

		if len(info.WorkingObjects) == 0 {
			// Children of a dropped record hang off its closest surviving ancestor.
			remap[i] = parent
			info.Dispose()
			buildInfosPruned.Inc()
			continue
		}

		info.ParentIndex = parent
		remap[i] = len(results)
		results = append(results, info)
		workingObjectsPerInfo.Observe(float64(len(info.WorkingObjects)))
	}
	return results
}

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func displayName(name string) string {
	if name == "" {
		return "root"
	}
	return name
}
