package srv

import (
	"time"

	"github.com/jypelle/adcmon/internal/srv/event"
	"github.com/sirupsen/logrus"
)

func (s *ServerApp) eventLoop() {
	statsTicker := time.NewTicker(s.statsInterval)
	defer statsTicker.Stop()

	for loop := true; loop; {
		select {
		case ev := <-s.pipelineEventChannel:
			switch data := ev.Data.(type) {
			case event.PipelineEventStoppedData:
				if isRequestedStop(data.Err) {
					logrus.Infof("Pipeline stopped")
				} else {
					logrus.Errorf("Pipeline failure: %v", data.Err)
					select {
					case s.failure <- data.Err:
					default:
					}
				}
			}
		case <-statsTicker.C:
			status := s.Status()
			logrus.Debugf("Pipeline stats: latest=%d samples=%d renders=%d batches=%d",
				status.LatestSample, status.Samples, status.Renders, status.Batches)
		case <-s.eventLoopAskDone:
			loop = false
		}
	}
	s.eventLoopDone <- true
}
