package device

import (
	"math"
	"sync"
	"time"

	"github.com/jypelle/adcmon/internal/srv/config"
)

// Generator produces a sine centered on mid-scale, standing in for the
// converter in simulation mode. The phase advances by one nominal sample
// interval per reading.
type Generator struct {
	lock      sync.Mutex
	frequency float64
	amplitude float64
	interval  time.Duration
	index     uint64
}

func NewGenerator(param config.SimulationParam, interval time.Duration) *Generator {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &Generator{
		frequency: param.SignalHz,
		amplitude: param.Amplitude,
		interval:  interval,
	}
}

func (g *Generator) Next() uint16 {
	g.lock.Lock()
	defer g.lock.Unlock()

	t := float64(g.index) * g.interval.Seconds()
	g.index++

	v := 0.5 + 0.5*g.amplitude*math.Sin(2*math.Pi*g.frequency*t)
	return uint16(math.Round(v * math.MaxUint16))
}
