package sched

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jypelle/adcmon/internal/srv/plot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleSourceNextSuspendsAfterRead(t *testing.T) {
	clock := newFakeClock()
	source := NewSampleSource(&sequenceReader{values: []uint16{10, 20, 30}}, 50*time.Millisecond)
	executor := NewExecutor(clock)
	var got []plot.Sample
	var readAt, publishedAt []time.Duration
	publish := func(plot.Sample) {
		publishedAt = append(publishedAt, clock.elapsed())
	}

	executor.Spawn("reader", func(task *Task) error {
		for i := 0; i < 3; i++ {
			readAt = append(readAt, clock.elapsed())
			v, err := source.Next(task, publish)
			if err != nil {
				return err
			}
			got = append(got, v)
		}
		return nil
	})

	require.NoError(t, executor.Run(context.Background()))
	assert.Equal(t, []plot.Sample{10, 20, 30}, got)
	assert.Equal(t, []time.Duration{0, 50 * time.Millisecond, 100 * time.Millisecond}, readAt)
	assert.Equal(t, readAt, publishedAt, "published before the delay")
	assert.Equal(t, 50*time.Millisecond, source.Delay())
}

func TestSampleSourceWrapsReadFailure(t *testing.T) {
	readErr := errors.New("converter fault")
	source := NewSampleSource(ReaderFunc(func() (uint16, error) { return 0, readErr }), 0)

	_, err := source.Read()

	assert.ErrorIs(t, err, ErrAcquisitionFailure)
	assert.ErrorIs(t, err, readErr)
}

func TestSampleSourceNextSkipsPublishOnFailure(t *testing.T) {
	source := NewSampleSource(ReaderFunc(func() (uint16, error) { return 0, errors.New("nack") }), time.Millisecond)
	executor := NewExecutor(newFakeClock())
	published := false

	executor.Spawn("reader", func(task *Task) error {
		_, err := source.Next(task, func(plot.Sample) { published = true })
		return err
	})

	assert.ErrorIs(t, executor.Run(context.Background()), ErrAcquisitionFailure)
	assert.False(t, published)
}
