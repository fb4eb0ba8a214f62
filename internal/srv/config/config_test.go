package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerConfigCreatesDefaults(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "adcmon")

	sc, err := NewServerConfig(configDir, false, true)
	require.NoError(t, err)

	assert.True(t, sc.SimulationMode)
	assert.Equal(t, DisplayParam{Width: 128, Height: 64}, sc.Display)
	assert.Equal(t, PlotParam{LeftStart: 5, BottomLine: 62, PixelsTop: 40}, sc.Plot)
	assert.Equal(t, BarParam{Left: 5, Top: 25, Height: 60, PixelsTop: 120}, sc.Bar)
	assert.Equal(t, TimingParam{
		AdcDelay:     100 * time.Microsecond,
		RefreshDelay: 100 * time.Microsecond,
		FrameDelay:   50 * time.Millisecond,
	}, sc.Timing)
	assert.Equal(t, SchedulerParam{Policy: "decoupled", Mode: "waveform"}, sc.Scheduler)
	assert.Equal(t, "Value", sc.Label)
	assert.Equal(t, uint16(0x48), sc.Adc.Address)
	assert.False(t, sc.ApiParam.Enabled)

	assert.FileExists(t, sc.GetCompleteParamFilename())
}

func TestNewServerConfigReloadsSavedParam(t *testing.T) {
	configDir := t.TempDir()
	sc, err := NewServerConfig(configDir, false, false)
	require.NoError(t, err)

	sc.Scheduler = SchedulerParam{Policy: "producer_consumer", Mode: "frame"}
	sc.Timing.FrameDelay = 20 * time.Millisecond
	require.NoError(t, sc.SaveParam())

	reloaded, err := NewServerConfig(configDir, true, false)
	require.NoError(t, err)
	assert.True(t, reloaded.DebugMode)
	assert.Equal(t, "producer_consumer", reloaded.Scheduler.Policy)
	assert.Equal(t, 20*time.Millisecond, reloaded.Timing.FrameDelay)
}

func TestNewServerConfigRejectsBrokenFile(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, paramFilename), []byte("timing: [1, 2"), 0660))

	_, err := NewServerConfig(configDir, false, false)

	assert.Error(t, err)
}

func TestNewServerConfigRejectsInvalidValue(t *testing.T) {
	configDir := t.TempDir()
	raw := []byte("api:\n  enabled: true\n  ssl_port: 8443\nadc:\n  channel: 0\n  max_voltage_mv: 4096\n  data_rate_hz: 860\n")
	require.NoError(t, os.WriteFile(filepath.Join(configDir, paramFilename), raw, 0660))

	_, err := NewServerConfig(configDir, false, false)

	var paramErr *ParamError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "api.api_key", paramErr.Field)
}

func TestValidate(t *testing.T) {
	base := func() ServerParam {
		return ServerParam{
			Adc:        AdcParam{Channel: 1, MaxVoltageMv: 4096, DataRateHz: 860},
			Simulation: SimulationParam{SignalHz: 1, Amplitude: 0.5},
		}
	}
	p := base()
	assert.NoError(t, p.Validate())

	for field, mutate := range map[string]func(*ServerParam){
		"timing.adc_delay":     func(p *ServerParam) { p.Timing.AdcDelay = -1 },
		"adc.channel":          func(p *ServerParam) { p.Adc.Channel = 4 },
		"adc.data_rate_hz":     func(p *ServerParam) { p.Adc.DataRateHz = 0 },
		"simulation.amplitude": func(p *ServerParam) { p.Simulation.Amplitude = 1.5 },
	} {
		p := base()
		mutate(&p)
		var paramErr *ParamError
		require.ErrorAs(t, p.Validate(), &paramErr, field)
		assert.Equal(t, field, paramErr.Field)
	}
}
