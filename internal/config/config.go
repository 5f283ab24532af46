// Package config loads gameplay tuning from a JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
)

var ErrInvalid = errors.New("invalid tuning")

type PoolSize struct {
	DefaultCapacity int `json:"defaultCapacity"`
	MaxSize         int `json:"maxSize"`
}

type Pools struct {
	Projectile PoolSize `json:"projectile"`
	Particle   PoolSize `json:"particle"`
	Target     PoolSize `json:"target"`
}

// Tuning holds every knob the range exposes. Zero-valued fields in a file are
// taken literally, so a partial file should start from Default.
type Tuning struct {
	Gravity       float32 `json:"gravity"`
	Interval      float32 `json:"interval"`
	MaxTime       float32 `json:"maxTime"`
	ProbeRadius   float32 `json:"probeRadius"`
	ForwardOffset float32 `json:"forwardOffset"`
	CurvePoints   int     `json:"curvePoints"`
	LaunchSpeed   float32 `json:"launchSpeed"`
	LifetimeLimit float32 `json:"lifetimeLimit"`
	GraceDelay    float32 `json:"graceDelay"`
	StrictPools   bool    `json:"strictPools"`
	Pools         Pools   `json:"pools"`
}

func Default() Tuning {
	return Tuning{
		Gravity:       9.8,
		Interval:      0.1,
		MaxTime:       6,
		ProbeRadius:   0.1,
		ForwardOffset: 0,
		CurvePoints:   20,
		LaunchSpeed:   15,
		LifetimeLimit: 8,
		GraceDelay:    0.1,
		StrictPools:   true,
		Pools: Pools{
			Projectile: PoolSize{DefaultCapacity: 16, MaxSize: 64},
			Particle:   PoolSize{DefaultCapacity: 64, MaxSize: 256},
			Target:     PoolSize{DefaultCapacity: 0, MaxSize: 16},
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Tuning, error) {
	t := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("Config: %s not found, using defaults", path)
			return t, nil
		}
		return t, fmt.Errorf("read tuning: %w", err)
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return Default(), fmt.Errorf("parse tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return Default(), err
	}
	log.Printf("Config: loaded %s", path)
	return t, nil
}

// Save writes t as indented JSON.
func (t Tuning) Save(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (t Tuning) Validate() error {
	switch {
	case t.Gravity <= 0:
		return fmt.Errorf("%w: gravity must be positive, got %g", ErrInvalid, t.Gravity)
	case t.Interval <= 0:
		return fmt.Errorf("%w: interval must be positive, got %g", ErrInvalid, t.Interval)
	case t.MaxTime < t.Interval:
		return fmt.Errorf("%w: maxTime %g shorter than interval %g", ErrInvalid, t.MaxTime, t.Interval)
	case t.ProbeRadius < 0:
		return fmt.Errorf("%w: negative probeRadius", ErrInvalid)
	case t.CurvePoints < 2:
		return fmt.Errorf("%w: curvePoints must be at least 2, got %d", ErrInvalid, t.CurvePoints)
	case t.LaunchSpeed <= 0:
		return fmt.Errorf("%w: launchSpeed must be positive, got %g", ErrInvalid, t.LaunchSpeed)
	case t.LifetimeLimit <= 0:
		return fmt.Errorf("%w: lifetimeLimit must be positive", ErrInvalid)
	case t.GraceDelay < 0:
		return fmt.Errorf("%w: negative graceDelay", ErrInvalid)
	}
	pools := []struct {
		name string
		size PoolSize
	}{
		{"projectile", t.Pools.Projectile},
		{"particle", t.Pools.Particle},
		{"target", t.Pools.Target},
	}
	for _, p := range pools {
		if p.size.DefaultCapacity < 0 || p.size.MaxSize < p.size.DefaultCapacity {
			return fmt.Errorf("%w: pool %s capacity %d exceeds max size %d", ErrInvalid, p.name, p.size.DefaultCapacity, p.size.MaxSize)
		}
	}
	return nil
}
