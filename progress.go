package hlod

// Progress receives the unified progress of a bake or teardown.
type Progress interface {
	Report(title, info string, fraction float32)
	Clear()
}

// ProgressFunc adapts a function to Progress. Clear is a no-op.
type ProgressFunc func(title, info string, fraction float32)

func (f ProgressFunc) Report(title, info string, fraction float32) { f(title, info, fraction) }
func (f ProgressFunc) Clear()                                      {}

type nopProgress struct{}

func (nopProgress) Report(title, info string, fraction float32) {}
func (nopProgress) Clear()                                      {}

// Fixed slices of the overall bake progress.
const (
	splitWeight      = 0.20
	preProcessWeight = 0.05
	simplifyWeight   = 0.25
	batchWeight      = 0.25
	buildWeight      = 0.25

	splitBase      = 0
	preProcessBase = splitBase + splitWeight
	simplifyBase   = preProcessBase + preProcessWeight
	batchBase      = simplifyBase + simplifyWeight
	buildBase      = batchBase + batchWeight
)

const bakeTitle = "Bake HLOD"

// stageProgress maps a stage local fraction onto its slice of the overall range.
func stageProgress(p Progress, info string, base, weight float32) func(float32) {
	return func(f float32) {
		p.Report(bakeTitle, info, base+clamp01(f)*weight)
	}
}

// perRootWeight is the part of the bake spent inside the per-root stages.
const perRootWeight = simplifyWeight + batchWeight + buildWeight

// rootStageProgress maps a per-root stage of root ri out of rootCount onto
// that root's share of the per-root range, so the overall value never goes
// back when the next root starts.
func rootStageProgress(p Progress, info string, base, weight float32, ri, rootCount int) func(float32) {
	scale := 1 / float32(rootCount)
	start := simplifyBase + (float32(ri)*perRootWeight+(base-simplifyBase))*scale
	return stageProgress(p, info, start, weight*scale)
}
