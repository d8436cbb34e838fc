package profile

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// ErrProfile wraps failures creating or writing a profile.
var ErrProfile = errors.New("profile")

// Profiler starts and stops the profiles enabled in a [Config].
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	cpuFile   *os.File
	traceFile *os.File
	config    Config
	started   bool
}

// Start begins CPU profiling and tracing, if enabled. On failure anything
// already started is stopped again.
func (p *Profiler) Start() error {
	if p.started {
		return nil
	}

	if p.config.CPUProfile != "" {
		f, err := create(p.config.CPUProfile)
		if err != nil {
			return err
		}

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return fmt.Errorf("%w: start cpu profile: %w", ErrProfile, errors.Join(err, f.Close()))
		}

		p.cpuFile = f
	}

	if p.config.Trace != "" {
		f, err := create(p.config.Trace)
		if err != nil {
			return errors.Join(err, p.stopCPU())
		}

		err = trace.Start(f)
		if err != nil {
			return fmt.Errorf("%w: start trace: %w", ErrProfile, errors.Join(err, f.Close(), p.stopCPU()))
		}

		p.traceFile = f
	}

	p.started = true

	return nil
}

// Stop ends CPU profiling and tracing and writes the heap profile. It is
// safe to call without a successful [Profiler.Start].
func (p *Profiler) Stop() error {
	if !p.started {
		return nil
	}

	p.started = false

	return errors.Join(p.stopTrace(), p.stopCPU(), p.writeHeap())
}

func (p *Profiler) stopCPU() error {
	if p.cpuFile == nil {
		return nil
	}

	pprof.StopCPUProfile()

	err := p.cpuFile.Close()
	p.cpuFile = nil

	if err != nil {
		return fmt.Errorf("%w: close cpu profile: %w", ErrProfile, err)
	}

	return nil
}

func (p *Profiler) stopTrace() error {
	if p.traceFile == nil {
		return nil
	}

	trace.Stop()

	err := p.traceFile.Close()
	p.traceFile = nil

	if err != nil {
		return fmt.Errorf("%w: close trace: %w", ErrProfile, err)
	}

	return nil
}

func (p *Profiler) writeHeap() error {
	if p.config.HeapProfile == "" {
		return nil
	}

	f, err := create(p.config.HeapProfile)
	if err != nil {
		return err
	}

	runtime.GC()

	err = pprof.Lookup("heap").WriteTo(f, 0)

	err = errors.Join(err, f.Close())
	if err != nil {
		return fmt.Errorf("%w: write heap profile: %w", ErrProfile, err)
	}

	return nil
}

func create(path string) (*os.File, error) {
	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfile, err)
	}

	return f, nil
}
