package ioctl

import (
	"context"
	"math/rand"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
)

// DefaultBufferSize is the FIFO capacity a sensor is given when none
// is specified.
const DefaultBufferSize = 16

// flipProbability is the chance, on each generated reading, that the
// sensor's readiness is randomly reassigned instead of forced to
// StateReady.
const flipProbability = 0.05

// TemperatureSensor is a Device that, while active, appends
// pseudo-random integer-scaled readings into its FIFO at a
// configurable interval, occasionally flipping its own readiness to
// exercise a polling or interrupt controller's error handling.
type TemperatureSensor struct {
	*FIFO

	tempMin, tempMax float64
	interval         time.Duration
	rng              *rand.Rand
	logger           logr.Logger

	group  *errgroup.Group
	cancel context.CancelFunc
}

// SensorOption configures a TemperatureSensor at construction time.
type SensorOption func(*TemperatureSensor)

// WithLogger attaches a logger for advisory tracing of generated
// readings and readiness flips.
func WithLogger(logger logr.Logger) SensorOption {
	return func(s *TemperatureSensor) {
		s.logger = logger
	}
}

// WithBufferSize overrides the default FIFO capacity.
func WithBufferSize(size int) SensorOption {
	return func(s *TemperatureSensor) {
		s.FIFO = NewFIFO(s.FIFO.Name(), size)
	}
}

// NewTemperatureSensor creates a sensor named name that generates
// readings uniformly in [tempMin, tempMax] every interval, scaled by
// 100 and truncated to an integer before being pushed to the FIFO.
// seed makes the reading sequence reproducible.
func NewTemperatureSensor(name string, tempMin, tempMax float64, interval time.Duration, seed int64, opts ...SensorOption) *TemperatureSensor {
	s := &TemperatureSensor{
		FIFO:     NewFIFO(name, DefaultBufferSize),
		tempMin:  tempMin,
		tempMax:  tempMax,
		interval: interval,
		rng:      rand.New(rand.NewSource(seed)),
		logger:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the sensor's reading-generation loop. It returns
// immediately; the loop runs until Stop is called or ctx is canceled.
func (s *TemperatureSensor) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.group, _ = errgroup.WithContext(loopCtx)
	s.group.Go(func() error {
		s.generateLoop(loopCtx)
		return nil
	})
}

// Stop cancels the reading loop and waits up to timeout for it to
// exit, matching the bounded-join discipline every background loop in
// this package follows.
func (s *TemperatureSensor) Stop(timeout time.Duration) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	done := make(chan error, 1)
	go func() { done <- s.group.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return context.DeadlineExceeded
	}
}

func (s *TemperatureSensor) generateLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.generateReading()
		}
	}
}

func (s *TemperatureSensor) generateReading() {
	temperature := s.tempMin + s.rng.Float64()*(s.tempMax-s.tempMin)
	reading := int(temperature * 100)

	if s.rng.Float64() < flipProbability {
		states := []State{StateReady, StateBusy, StateError}
		s.SetState(states[s.rng.Intn(len(states))])
	} else {
		s.SetState(StateReady)
	}

	if !s.Write(reading) {
		s.logger.V(1).Info("sensor buffer full, dropping reading", "device", s.Name(), "value", reading)
		return
	}
	s.logger.V(1).Info("sensor reading generated", "device", s.Name(), "value", reading)
}
