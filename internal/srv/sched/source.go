package sched

import (
	"fmt"
	"time"

	"github.com/jypelle/adcmon/internal/srv/plot"
)

// Reader performs one raw conversion.
type Reader interface {
	ReadSample() (uint16, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func() (uint16, error)

func (f ReaderFunc) ReadSample() (uint16, error) { return f() }

// SampleSource pairs a Reader with the delay observed after each read.
type SampleSource struct {
	reader Reader
	delay  time.Duration
}

func NewSampleSource(reader Reader, delay time.Duration) *SampleSource {
	return &SampleSource{reader: reader, delay: delay}
}

func (s *SampleSource) Delay() time.Duration { return s.delay }

// Read performs one conversion without suspending.
func (s *SampleSource) Read() (plot.Sample, error) {
	v, err := s.reader.ReadSample()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrAcquisitionFailure, err)
	}
	return plot.Sample(v), nil
}

// Next reads one sample, hands it to publish when not nil, then suspends t
// for the source delay.
func (s *SampleSource) Next(t *Task, publish func(plot.Sample)) (plot.Sample, error) {
	v, err := s.Read()
	if err != nil {
		return 0, err
	}
	if publish != nil {
		publish(v)
	}
	return v, t.Sleep(s.delay)
}
