package trajectory

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

var ErrDiverged = errors.New("replay diverged")

// Recording captures simulate calls and their results so a run can be replayed
// against the same environment and checked for bit-identical output.
//
// Env carries whatever the caller needs to rebuild that environment; the
// simulator never reads it.
type Recording struct {
	Gravity float32            `msgpack:"g"`
	Env     map[string]float32 `msgpack:"env,omitempty"`
	Runs    []RecordedRun      `msgpack:"runs"`
}

type RecordedRun struct {
	Params  Params       `msgpack:"params"`
	Samples []Sample     `msgpack:"samples"`
	Impact  ImpactResult `msgpack:"impact"`
}

// Recorder wraps a Simulator and appends every successful call to a Recording.
type Recorder struct {
	Sim *Simulator
	Rec Recording
}

func NewRecorder(sim *Simulator) *Recorder {
	return &Recorder{Sim: sim, Rec: Recording{Gravity: sim.Gravity}}
}

func (r *Recorder) Simulate(p Params) (Path, error) {
	path, err := r.Sim.Simulate(p)
	if err != nil {
		return path, err
	}
	r.Rec.Runs = append(r.Rec.Runs, RecordedRun{Params: p, Samples: path.Samples, Impact: path.Impact})
	return path, nil
}

func (rec *Recording) Encode(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(rec); err != nil {
		return fmt.Errorf("encode recording: %w", err)
	}
	return nil
}

func DecodeRecording(r io.Reader) (*Recording, error) {
	var rec Recording
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode recording: %w", err)
	}
	return &rec, nil
}

// Replay re-runs every recorded call on sim and reports the first run whose
// output differs. Hit objects are compared by UID, so the environment must be
// rebuilt with the same objects for a replay to pass.
func Replay(sim *Simulator, rec *Recording) error {
	if sim.Gravity != rec.Gravity {
		return fmt.Errorf("%w: gravity %v, recorded %v", ErrDiverged, sim.Gravity, rec.Gravity)
	}
	for i, run := range rec.Runs {
		path, err := sim.Simulate(run.Params)
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		if path.Impact != run.Impact {
			return fmt.Errorf("%w: run %d impact %+v, recorded %+v", ErrDiverged, i, path.Impact, run.Impact)
		}
		if len(path.Samples) != len(run.Samples) {
			return fmt.Errorf("%w: run %d has %d samples, recorded %d", ErrDiverged, i, len(path.Samples), len(run.Samples))
		}
		for j := range path.Samples {
			if path.Samples[j] != run.Samples[j] {
				return fmt.Errorf("%w: run %d sample %d", ErrDiverged, i, j)
			}
		}
	}
	return nil
}
