package sched

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jypelle/adcmon/internal/srv/plot"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Policy          Policy
	Mode            Mode
	Geometry        plot.Geometry
	Bar             plot.BarGeometry
	WaveformColumns int

	AdcDelay     time.Duration
	RefreshDelay time.Duration
	FrameDelay   time.Duration
}

func (c Config) validate() error {
	switch c.Policy {
	case Decoupled, Fused:
		if c.Mode != Bar && c.Mode != Waveform {
			return fmt.Errorf("%s policy cannot render %s mode", c.Policy, c.Mode)
		}
	case ProducerConsumer:
		if c.Mode != Frame {
			return fmt.Errorf("%s policy cannot render %s mode", c.Policy, c.Mode)
		}
	default:
		return fmt.Errorf("unknown policy %s", c.Policy)
	}
	if c.AdcDelay < 0 || c.RefreshDelay < 0 || c.FrameDelay < 0 {
		return fmt.Errorf("negative delay")
	}
	if c.Geometry.PixelsPerScreen <= 0 {
		return fmt.Errorf("plot geometry has no column")
	}
	if c.Mode == Bar {
		return c.Bar.Validate()
	}
	return nil
}

// Stats are running counters, safe to read from any goroutine.
type Stats struct {
	Samples uint64
	Renders uint64
	Batches uint64
}

// Scheduler coordinates sample acquisition and rendering on a FrameBuffer.
//
// Sampling and rendering tasks run on one Executor, so the frame buffer, the
// waveform ring and the staged batch are never touched by two tasks at once.
type Scheduler struct {
	config Config
	source *SampleSource
	fb     plot.FrameBuffer
	clock  Clock

	// latest is the last-write-wins slot between sampling and rendering.
	latest atomic.Uint32

	waveform *plot.Waveform
	staged   []plot.Sample
	working  []plot.Sample
	ready    Signal
	ops      []plot.Op

	samples atomic.Uint64
	renders atomic.Uint64
	batches atomic.Uint64
	running atomic.Bool
}

type Option func(*Scheduler)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clock Clock) Option {
	return func(s *Scheduler) { s.clock = clock }
}

func New(config Config, reader Reader, fb plot.FrameBuffer, opts ...Option) (*Scheduler, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		config: config,
		source: NewSampleSource(reader, config.AdcDelay),
		fb:     fb,
		clock:  RealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}

	switch config.Mode {
	case Bar:
		s.ops = make([]plot.Op, 0, 2)
	case Waveform:
		waveform, err := plot.NewWaveform(config.Geometry, config.WaveformColumns)
		if err != nil {
			return nil, err
		}
		s.waveform = waveform
		s.ops = make([]plot.Op, 0, 2)
	case Frame:
		s.staged = make([]plot.Sample, config.Geometry.PixelsPerScreen)
		s.working = make([]plot.Sample, config.Geometry.PixelsPerScreen)
		s.ops = make([]plot.Op, 0, config.Geometry.PixelsPerScreen+1)
	}

	return s, nil
}

// Run spawns the tasks of the configured policy and drives them until ctx
// is done or a task fails with an acquisition or render failure.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	executor := NewExecutor(s.clock)
	switch s.config.Policy {
	case Decoupled:
		// Rendering is spawned first: its first pass shows the default sample.
		executor.Spawn("render", s.renderLoop)
		executor.Spawn("sample", s.sampleLoop)
	case Fused:
		executor.Spawn("fused", s.fusedLoop)
	case ProducerConsumer:
		executor.Spawn("consumer", s.consumeLoop)
		executor.Spawn("producer", s.produceLoop)
	}

	logrus.Debugf("Run %s scheduler in %s mode", s.config.Policy, s.config.Mode)
	return executor.Run(ctx)
}

// Latest returns the last acquired sample, 0 before the first acquisition.
func (s *Scheduler) Latest() plot.Sample {
	return plot.Sample(s.latest.Load())
}

func (s *Scheduler) Stats() Stats {
	return Stats{
		Samples: s.samples.Load(),
		Renders: s.renders.Load(),
		Batches: s.batches.Load(),
	}
}

func (s *Scheduler) Config() Config {
	return s.config
}

func (s *Scheduler) store(v plot.Sample) {
	s.latest.Store(uint32(v))
	s.samples.Add(1)
}

func (s *Scheduler) sampleLoop(t *Task) error {
	for {
		if _, err := s.source.Next(t, s.store); err != nil {
			return err
		}
	}
}

func (s *Scheduler) renderLoop(t *Task) error {
	for {
		if err := s.draw(s.Latest()); err != nil {
			return err
		}
		if err := t.Sleep(s.config.RefreshDelay); err != nil {
			return err
		}
	}
}

func (s *Scheduler) fusedLoop(t *Task) error {
	for {
		v, err := s.source.Read()
		if err != nil {
			return err
		}
		s.store(v)
		if err := s.draw(v); err != nil {
			return err
		}
		if err := t.Sleep(s.config.AdcDelay + s.config.RefreshDelay); err != nil {
			return err
		}
	}
}

// produceLoop fills the working batch and swaps it into the staged slot only
// once complete, so the consumer never sees a partial batch.
func (s *Scheduler) produceLoop(t *Task) error {
	for {
		for i := range s.working {
			v, err := s.source.Next(t, s.store)
			if err != nil {
				return err
			}
			s.working[i] = v
		}
		s.staged, s.working = s.working, s.staged
		s.batches.Add(1)
		s.ready.Raise()
	}
}

func (s *Scheduler) consumeLoop(t *Task) error {
	for {
		if err := t.Wait(&s.ready); err != nil {
			return err
		}
		ops, err := plot.AppendFrameOps(s.ops[:0], s.config.Geometry, s.staged)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRenderFailure, err)
		}
		s.ops = ops
		if err := s.flush(); err != nil {
			return err
		}
		s.ready.Clear()
		if err := t.Sleep(s.config.FrameDelay); err != nil {
			return err
		}
	}
}

func (s *Scheduler) draw(v plot.Sample) error {
	switch s.config.Mode {
	case Bar:
		s.ops = plot.AppendBarOps(s.ops[:0], s.config.Bar, v)
	case Waveform:
		s.ops = s.waveform.AppendOps(s.ops[:0], v)
	}
	return s.flush()
}

// flush applies the pending ops and flushes once all of them are issued.
func (s *Scheduler) flush() error {
	plot.Apply(s.fb, s.ops)
	if err := s.fb.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	s.renders.Add(1)
	return nil
}
