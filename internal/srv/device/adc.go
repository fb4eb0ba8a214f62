package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jypelle/adcmon/internal/srv/config"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
)

var ErrAdcNotStarted = errors.New("adc not started")

var adcChannels = [...]ads1x15.Channel{
	ads1x15.Channel0,
	ads1x15.Channel1,
	ads1x15.Channel2,
	ads1x15.Channel3,
}

// Adc reads one single-ended channel of an ADS1115, or the generator in
// simulation mode.
type Adc struct {
	lock           sync.Mutex
	param          config.AdcParam
	simulationMode bool
	generator      *Generator

	i2cBus i2c.BusCloser
	dev    *ads1x15.Dev
	pin    ads1x15.PinADC
}

func NewAdc(param config.AdcParam, generator *Generator, simulationMode bool) *Adc {
	return &Adc{
		param:          param,
		simulationMode: simulationMode,
		generator:      generator,
	}
}

func (a *Adc) Start() error {
	logrus.Infof("Start adc device")

	if a.simulationMode {
		return nil
	}

	if a.param.Channel < 0 || a.param.Channel >= len(adcChannels) {
		return fmt.Errorf("invalid adc channel %d", a.param.Channel)
	}

	if err := initHost(); err != nil {
		return fmt.Errorf("unable to initialize host: %w", err)
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	var err error
	a.i2cBus, err = i2creg.Open(a.param.I2cBus)
	if err != nil {
		return fmt.Errorf("unable to open i2c bus: %w", err)
	}

	a.dev, err = ads1x15.NewADS1115(a.i2cBus, &ads1x15.Opts{I2cAddress: a.param.Address})
	if err != nil {
		a.closeBus()
		return fmt.Errorf("unable to initialize ads1115: %w", err)
	}

	a.pin, err = a.dev.PinForChannel(
		adcChannels[a.param.Channel],
		physic.ElectricPotential(a.param.MaxVoltageMv)*physic.MilliVolt,
		physic.Frequency(a.param.DataRateHz)*physic.Hertz,
		ads1x15.BestQuality,
	)
	if err != nil {
		a.closeBus()
		return fmt.Errorf("unable to open adc channel %d: %w", a.param.Channel, err)
	}

	logrus.Debugf("Adc channel ready: %v", a.pin)
	return nil
}

func (a *Adc) Stop() {
	logrus.Infof("Stop adc device")

	a.lock.Lock()
	defer a.lock.Unlock()

	if a.pin != nil {
		if err := a.pin.Halt(); err != nil {
			logrus.Warnf("Unable to halt adc channel: %v", err)
		}
		a.pin = nil
	}
	a.closeBus()
}

func (a *Adc) closeBus() {
	a.dev = nil
	if a.i2cBus != nil {
		a.i2cBus.Close()
		a.i2cBus = nil
	}
}

// ReadSample performs one conversion, scaled to the full 16-bit range.
func (a *Adc) ReadSample() (uint16, error) {
	if a.simulationMode {
		return a.generator.Next(), nil
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	if a.pin == nil {
		return 0, ErrAdcNotStarted
	}
	sample, err := a.pin.Read()
	if err != nil {
		return 0, err
	}
	return scaleReading(sample), nil
}

// scaleReading maps a single-ended reading (0 to 32767) onto 0 to 65534.
// Readings below ground clamp to 0.
func scaleReading(sample analog.Sample) uint16 {
	raw := sample.Raw
	if raw < 0 {
		raw = 0
	}
	if raw > 0x7fff {
		raw = 0x7fff
	}
	return uint16(raw) << 1
}
