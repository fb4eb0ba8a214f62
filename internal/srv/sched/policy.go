package sched

import "fmt"

// Policy selects how the sampling and rendering work is split into tasks.
type Policy uint8

const (
	// Decoupled runs a sampling task and a rendering task at independent
	// rates, sharing only the latest sample.
	Decoupled Policy = iota
	// Fused runs one task that samples then draws on every iteration.
	Fused
	// ProducerConsumer collects full frame batches and hands them to the
	// rendering task through a signal.
	ProducerConsumer
)

var policyNames = map[Policy]string{
	Decoupled:        "decoupled",
	Fused:            "fused",
	ProducerConsumer: "producer_consumer",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("policy(%d)", uint8(p))
}

func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown scheduler policy %q", s)
}

// Mode selects the visualization.
type Mode uint8

const (
	Bar Mode = iota
	Waveform
	Frame
)

var modeNames = map[Mode]string{
	Bar:      "bar",
	Waveform: "waveform",
	Frame:    "frame",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown render mode %q", s)
}
