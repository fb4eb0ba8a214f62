package srv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jypelle/adcmon/apimodel"
	"github.com/jypelle/adcmon/internal/srv/config"
	"github.com/jypelle/adcmon/internal/srv/device"
	"github.com/jypelle/adcmon/internal/srv/event"
	"github.com/jypelle/adcmon/internal/srv/plot"
	"github.com/jypelle/adcmon/internal/srv/sched"
	"github.com/jypelle/adcmon/internal/srv/simulation"
	"github.com/jypelle/adcmon/internal/version"
	"github.com/sirupsen/logrus"
)

type viewer interface {
	device.Viewer
	Close()
}

type ServerApp struct {
	*config.ServerConfig
	displayDevice *device.Display
	adcDevice     *device.Adc
	apiDevice     *device.Api
	scheduler     *sched.Scheduler

	openViewer       func(frames simulation.FrameSource, width, height int) viewer
	simulationViewer viewer

	startTime time.Time

	pipelineEventChannel chan event.PipelineEvent
	cancelPipeline       context.CancelFunc
	pipelineDone         chan bool
	failure              chan error

	statsInterval    time.Duration
	eventLoopAskDone chan bool
	eventLoopDone    chan bool
}

func NewServerApp(configDir string, debugMode bool, simulationMode bool) (*ServerApp, error) {

	logrus.Debugf("Creation of adcmon server %s ...", version.AppVersion.String())

	serverConfig, err := config.NewServerConfig(configDir, debugMode, simulationMode)
	if err != nil {
		return nil, err
	}

	app := &ServerApp{
		ServerConfig:         serverConfig,
		openViewer:           openSimulationWindow,
		pipelineEventChannel: make(chan event.PipelineEvent, 1),
		failure:              make(chan error, 1),
		statsInterval:        10 * time.Second,
		eventLoopAskDone:     make(chan bool),
		eventLoopDone:        make(chan bool),
	}

	schedulerConfig, err := app.schedulerConfig()
	if err != nil {
		return nil, err
	}

	app.displayDevice = device.NewDisplay(app.Display.Width, app.Display.Height, app.SimulationMode)
	app.adcDevice = device.NewAdc(
		app.Adc,
		device.NewGenerator(app.Simulation, app.Timing.AdcDelay),
		app.SimulationMode,
	)
	app.scheduler, err = sched.New(schedulerConfig, app.adcDevice, app.displayDevice)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler configuration: %w", err)
	}
	if app.ApiParam.Enabled {
		app.apiDevice = device.NewApi(app.ServerConfig, app, app.displayDevice)
	}

	logrus.Debugln("Server created")

	return app, nil
}

func (s *ServerApp) schedulerConfig() (sched.Config, error) {
	geometry, err := plot.NewGeometry(
		s.Display.Width,
		s.Display.Height,
		s.Plot.LeftStart,
		s.Plot.BottomLine,
		s.Plot.PixelsTop,
	)
	if err != nil {
		return sched.Config{}, fmt.Errorf("invalid plot geometry: %w", err)
	}

	policy, err := sched.ParsePolicy(s.Scheduler.Policy)
	if err != nil {
		return sched.Config{}, err
	}
	mode, err := sched.ParseMode(s.Scheduler.Mode)
	if err != nil {
		return sched.Config{}, err
	}

	return sched.Config{
		Policy:   policy,
		Mode:     mode,
		Geometry: geometry,
		Bar: plot.BarGeometry{
			DisplayWidth: s.Display.Width,
			Left:         s.Bar.Left,
			Top:          s.Bar.Top,
			Height:       s.Bar.Height,
			PixelsTop:    s.Bar.PixelsTop,
		},
		WaveformColumns: s.Plot.WaveformColumns,
		AdcDelay:        s.Timing.AdcDelay,
		RefreshDelay:    s.Timing.RefreshDelay,
		FrameDelay:      s.Timing.FrameDelay,
	}, nil
}

func openSimulationWindow(frames simulation.FrameSource, width, height int) viewer {
	return simulation.Open(frames, width, height)
}

func (s *ServerApp) Start() error {
	logrus.Printf("Starting adcmon server ...")

	s.startTime = time.Now()

	logrus.Printf("Starting devices ...")

	// Start display device
	if err := s.displayDevice.Start(); err != nil {
		return err
	}
	if s.SimulationMode {
		s.simulationViewer = s.openViewer(s.displayDevice, s.Display.Width, s.Display.Height)
		s.displayDevice.SetViewer(s.simulationViewer)
	}

	// Start adc device
	if err := s.adcDevice.Start(); err != nil {
		s.stopDevices()
		return err
	}

	// Display startup screen
	s.displayDevice.Clear()
	AddLabel(s.displayDevice, 5, 5, s.Label)
	if err := s.displayDevice.Flush(); err != nil {
		s.stopDevices()
		return fmt.Errorf("%w: %w", sched.ErrRenderFailure, err)
	}

	// Start event loop
	go s.eventLoop()

	// Start pipeline
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelPipeline = cancel
	s.pipelineDone = make(chan bool)
	go func() {
		defer close(s.pipelineDone)
		err := s.scheduler.Run(ctx)
		s.pipelineEventChannel <- event.PipelineEvent{Data: event.PipelineEventStoppedData{Err: err}}
	}()

	// Start api device
	if s.apiDevice != nil {
		if err := s.apiDevice.Start(); err != nil {
			logrus.Warnf("Unable to start api: %v", err)
		}
	}

	return nil
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping adcmon server ...")

	// Stop api
	if s.apiDevice != nil {
		s.apiDevice.Stop()
	}

	// Stop pipeline
	logrus.Infof("Stop pipeline")
	s.cancelPipeline()
	<-s.pipelineDone

	// Stop event loop
	logrus.Infof("Stop event loop")
	s.eventLoopAskDone <- true
	<-s.eventLoopDone

	// Display end screen
	s.displayDevice.Clear()
	AddCenteredLabel(s.displayDevice, s.Display.Width, 28, "See you!")
	if err := s.displayDevice.Flush(); err != nil {
		logrus.Warnf("Unable to display end screen: %v", err)
	}

	s.stopDevices()

	logrus.Printf("Server stopped")
}

func (s *ServerApp) stopDevices() {
	s.adcDevice.Stop()
	if s.simulationViewer != nil {
		s.simulationViewer.Close()
		s.simulationViewer = nil
	}
	s.displayDevice.Stop()
}

// Failure delivers the error that stopped the pipeline on its own, an
// acquisition or render failure.
func (s *ServerApp) Failure() <-chan error {
	return s.failure
}

func (s *ServerApp) Status() apimodel.Status {
	stats := s.scheduler.Stats()
	schedulerConfig := s.scheduler.Config()
	return apimodel.Status{
		Version:      version.AppVersion.String(),
		Policy:       schedulerConfig.Policy.String(),
		Mode:         schedulerConfig.Mode.String(),
		Simulation:   s.SimulationMode,
		LatestSample: uint16(s.scheduler.Latest()),
		Samples:      stats.Samples,
		Renders:      stats.Renders,
		Batches:      stats.Batches,
		UptimeMs:     time.Since(s.startTime).Milliseconds(),
	}
}

func isRequestedStop(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}
