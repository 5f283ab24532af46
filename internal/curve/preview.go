package curve

import (
	"ballista/internal/trajectory"
)

// Preview is the single trajectory preview a shooter owns. Each Update
// re-simulates and replaces the displayed curve; there is never more than one.
type Preview struct {
	Sim      *trajectory.Simulator
	Renderer *Renderer

	path   trajectory.Path
	params trajectory.Params
	active bool
}

func NewPreview(sim *trajectory.Simulator, resolution int) *Preview {
	return &Preview{Sim: sim, Renderer: NewRenderer(resolution)}
}

// Update simulates p and shows the result, superseding any previous preview.
// On error the previous preview is hidden rather than left stale.
func (pv *Preview) Update(p trajectory.Params) (trajectory.Path, error) {
	path, err := pv.Sim.Simulate(p)
	if err != nil {
		pv.Cancel()
		return trajectory.Path{}, err
	}
	pv.path = path
	pv.params = p
	pv.active = true
	pv.Renderer.Show(path.Samples, path.End(trajectory.EffectiveStart(p.Start, p.Velocity, p.ForwardOffset)))
	return path, nil
}

// Cancel hides the preview. Safe on an already hidden preview.
func (pv *Preview) Cancel() {
	pv.Renderer.Hide()
	pv.path = trajectory.Path{}
	pv.active = false
}

func (pv *Preview) Active() bool { return pv.active }

// Path is the true simulated path behind the displayed curve.
func (pv *Preview) Path() trajectory.Path { return pv.path }

func (pv *Preview) Params() trajectory.Params { return pv.params }
