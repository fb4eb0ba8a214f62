package config

import (
	_ "embed"
	"fmt"
	"time"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	Display    DisplayParam    `yaml:"display"`
	Plot       PlotParam       `yaml:"plot"`
	Bar        BarParam        `yaml:"bar"`
	Timing     TimingParam     `yaml:"timing"`
	Scheduler  SchedulerParam  `yaml:"scheduler"`
	Label      string          `yaml:"label"`
	Adc        AdcParam        `yaml:"adc"`
	Simulation SimulationParam `yaml:"simulation"`
	ApiParam   ApiParam        `yaml:"api"`
}

type DisplayParam struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type PlotParam struct {
	LeftStart       int `yaml:"left_start"`
	BottomLine      int `yaml:"bottom_line"`
	PixelsTop       int `yaml:"pixels_top"`
	WaveformColumns int `yaml:"waveform_columns"`
}

type BarParam struct {
	Left      int `yaml:"left"`
	Top       int `yaml:"top"`
	Height    int `yaml:"height"`
	PixelsTop int `yaml:"pixels_top"`
}

type TimingParam struct {
	AdcDelay     time.Duration `yaml:"adc_delay"`
	RefreshDelay time.Duration `yaml:"refresh_delay"`
	FrameDelay   time.Duration `yaml:"frame_delay"`
}

type SchedulerParam struct {
	Policy string `yaml:"policy"`
	Mode   string `yaml:"mode"`
}

type AdcParam struct {
	I2cBus       string `yaml:"i2c_bus"`
	Address      uint16 `yaml:"address"`
	Channel      int    `yaml:"channel"`
	MaxVoltageMv int64  `yaml:"max_voltage_mv"`
	DataRateHz   int64  `yaml:"data_rate_hz"`
}

type SimulationParam struct {
	SignalHz  float64 `yaml:"signal_hz"`
	Amplitude float64 `yaml:"amplitude"`
}

type ApiParam struct {
	Enabled bool   `yaml:"enabled"`
	SslPort int64  `yaml:"ssl_port"`
	ApiKey  string `yaml:"api_key"`
}

// ParamError reports an invalid value in the param file.
type ParamError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Message)
}

// Validate checks the values that are not checked when building the
// scheduler.
func (p *ServerParam) Validate() error {
	switch {
	case p.Timing.AdcDelay < 0:
		return &ParamError{"timing.adc_delay", p.Timing.AdcDelay, "must not be negative"}
	case p.Timing.RefreshDelay < 0:
		return &ParamError{"timing.refresh_delay", p.Timing.RefreshDelay, "must not be negative"}
	case p.Timing.FrameDelay < 0:
		return &ParamError{"timing.frame_delay", p.Timing.FrameDelay, "must not be negative"}
	case p.Adc.Channel < 0 || p.Adc.Channel > 3:
		return &ParamError{"adc.channel", p.Adc.Channel, "must be between 0 and 3"}
	case p.Adc.MaxVoltageMv <= 0:
		return &ParamError{"adc.max_voltage_mv", p.Adc.MaxVoltageMv, "must be positive"}
	case p.Adc.DataRateHz <= 0:
		return &ParamError{"adc.data_rate_hz", p.Adc.DataRateHz, "must be positive"}
	case p.Simulation.Amplitude < 0 || p.Simulation.Amplitude > 1:
		return &ParamError{"simulation.amplitude", p.Simulation.Amplitude, "must be between 0 and 1"}
	case p.ApiParam.Enabled && p.ApiParam.ApiKey == "":
		return &ParamError{"api.api_key", p.ApiParam.ApiKey, "required when the api is enabled"}
	}
	return nil
}
