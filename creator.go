package hlod

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gekko3d/hlod/scene"
	"github.com/gekko3d/hlod/space"
	"go.uber.org/multierr"
)

// Create bakes h. Spatial roots are processed one after the other; within a
// root the simplifier runs on every record concurrently and the batcher and
// streaming builder only start once all of them are done. Working copies of
// a root are released before moving to the next one, on every path.
func Create(ctx context.Context, h *HLOD) (err error) {
	log := h.logger()
	progress := h.progress()
	defer progress.Clear()
	defer func() {
		bakesTotal.WithLabelValues(outcome(err)).Inc()
	}()

	h.generated.Clear()

	cfg := h.Config
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Every collaborator is resolved up front so that a bad key never leaves
	// a partial bake behind.
	f, err := resolveFactories(cfg)
	if err != nil {
		return err
	}

	targets := scene.HLODTargets(h.Root)
	if len(targets) == 0 {
		return newConfigError(ErrNoTargets, "Empty HLOD sources.", "There are no objects to be included in the HLOD.")
	}

	splitter, err := f.splitter(cfg.SpaceSplitter)
	if err != nil {
		return err
	}
	simplifier, err := f.simplifier(cfg.Simplifier)
	if err != nil {
		return err
	}

	start := time.Now()
	stageStart := start

	roots, err := splitter.CreateSpaceTree(h.Bounds(), cfg.ChunkSize, h.Root.WorldToLocal(), targets,
		stageProgress(progress, "Splitting space", splitBase, splitWeight))
	if err != nil {
		return fmt.Errorf("split space: %w", err)
	}
	if len(roots) > MaxRoots {
		return newConfigError(ErrTooManyRoots, "Too many SubHLODTrees.",
			fmt.Sprintf("There are too many SubHLODTrees (%d). SubHLODTree is supported less than %d.", len(roots), MaxRoots+1))
	}
	log.Infof("[HLOD] Split space: %s (%d roots)", observeStage(stageSplit, stageStart), len(roots))

	batcher, err := f.batcher(cfg.Batcher)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, batcher.Dispose())
	}()

	stageStart = time.Now()
	onPreProcess := stageProgress(progress, "Storing results.", preProcessBase, preProcessWeight)
	if pp, ok := batcher.(PreProcessor); ok {
		if err := pp.PreProcess(ctx, h.Root, onPreProcess); err != nil {
			return fmt.Errorf("pre-process: %w", err)
		}
	}
	onPreProcess(1)
	observeStage(stagePreProcess, stageStart)

	pool := h.workingPool()
	stages := rootStages{simplifier: simplifier, batcher: batcher, streaming: f.streaming}
	for ri, root := range roots {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.buildRoot(ctx, ri, len(roots), root, pool, stages); err != nil {
			return fmt.Errorf("sub tree %d: %w", ri, err)
		}
	}

	stageStart = time.Now()
	if err := h.serializeUserData(f.serializer); err != nil {
		return fmt.Errorf("serialize user data: %w", err)
	}
	observeStage(stageUserData, stageStart)

	h.MarkDirty()
	log.Infof("[HLOD] Total time elapsed: %s", time.Since(start))
	return nil
}

// rootStages are the collaborators run over every spatial root.
type rootStages struct {
	simplifier Simplifier
	batcher    Batcher
	streaming  StreamingFactory
}

func (h *HLOD) buildRoot(ctx context.Context, ri, rootCount int, root *space.SpaceNode, pool *scene.Pool, stages rootStages) error {
	log := h.logger()
	progress := h.progress()
	cfg := h.Config

	infos, err := BuildInfos(ctx, root, cfg.MinObjectSize, pool)
	if err != nil {
		return fmt.Errorf("build infos: %w", err)
	}
	defer infos.Dispose()

	if len(infos) == 0 || len(infos[0].WorkingObjects) == 0 {
		log.Debugf("[HLOD] Sub tree %d has no working objects, skipped", ri)
		return nil
	}
	log.Debugf("[HLOD] Sub tree %d: %d build infos, %d working objects", ri, len(infos), infos.WorkingObjectCount())

	builder, err := stages.streaming(h, ri, cfg.Streaming)
	if err != nil {
		return err
	}

	stageStart := time.Now()
	branches := NewBranches(ctx)
	defer branches.Close()
	for _, info := range infos {
		branches.Go(func(ctx context.Context, onProgress func(float32)) error {
			if err := stages.simplifier.Simplify(ctx, info, onProgress); err != nil {
				return fmt.Errorf("simplify %q: %w", displayName(info.Name), err)
			}
			return nil
		})
	}
	if err := branches.Wait(rootStageProgress(progress, "Simplify meshes", simplifyBase, simplifyWeight, ri, rootCount)); err != nil {
		return err
	}
	log.Infof("[HLOD] Simplify: %s", observeStage(stageSimplify, stageStart))

	if err := ctx.Err(); err != nil {
		return err
	}

	stageStart = time.Now()
	if err := stages.batcher.Batch(ctx, h.Root, infos,
		rootStageProgress(progress, "Generating combined static meshes.", batchBase, batchWeight, ri, rootCount)); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	log.Infof("[HLOD] Batch: %s", observeStage(stageBatch, stageStart))

	if err := ctx.Err(); err != nil {
		return err
	}

	stageStart = time.Now()
	container := h.Root
	// Several roots get a container each so their structures don't collide.
	if rootCount > 1 {
		container = scene.NewObject(fmt.Sprintf("%s_SubTree%d", h.Root.Name, ri))
		h.Root.AddChild(container)
		h.AddGeneratedResource(container)
	}

	opts := BuildOptions{
		CullDistance:     cfg.CullDistance,
		LODDistance:      cfg.LODDistance,
		WriteNoPrefab:    false,
		ExtractMaterials: true,
	}
	if err := builder.Build(ctx, root, infos, container, opts,
		rootStageProgress(progress, "Storing results.", buildBase, buildWeight, ri, rootCount)); err != nil {
		return fmt.Errorf("build streaming: %w", err)
	}
	log.Infof("[HLOD] Build: %s", observeStage(stageBuild, stageStart))
	return nil
}

func (h *HLOD) serializeUserData(newSerializer UserDataSerializerFactory) error {
	if newSerializer == nil {
		return nil
	}

	serializer, err := newSerializer(h, h.Config.UserDataSerializer)
	if err != nil {
		return err
	}
	h.Root.AddComponent(serializer)
	h.AddGeneratedResource(serializer)

	for _, controller := range h.Controllers() {
		controller.SetUserDataSerializer(serializer)
		for i := 0; i < controller.HighObjectCount(); i++ {
			if err := serializer.SerializeUserData(controller, i, controller.HighObject(i)); err != nil {
				return err
			}
		}
	}

	if f, ok := serializer.(UserDataFlusher); ok {
		return f.Flush()
	}
	return nil
}

// Destroy removes everything a previous Create generated: composite
// instances are unpacked, asset files deleted and generated objects and
// components detached. It does nothing when nothing was generated.
func Destroy(ctx context.Context, h *HLOD) (err error) {
	resources := h.generated.Resources()
	if len(resources) == 0 {
		return nil
	}

	progress := h.progress()
	defer progress.Clear()
	const title = "Destroy HLOD"
	const info = "Destroying HLOD files"

	start := time.Now()
	progress.Report(title, info, 0)

	for _, obj := range h.generated.ConvertedPrefabs() {
		obj.Prefab = ""
	}

	for i, r := range resources {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return multierr.Append(err, ctxErr)
		}
		switch r.Kind {
		case ResourceAsset:
			if rmErr := os.Remove(r.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				err = multierr.Append(err, fmt.Errorf("delete asset %s: %w", r.Path, rmErr))
			}
		case ResourceObject:
			if r.Object != nil {
				r.Object.Detach()
			}
		case ResourceComponent:
			if r.Owner != nil {
				r.Owner.RemoveComponent(r.Component)
			}
		}
		progress.Report(title, info, float32(i+1)/float32(len(resources)))
	}
	h.generated.Clear()
	observeStage(stageDestroy, start)

	h.MarkDirty()
	return err
}
