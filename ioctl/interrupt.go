package ioctl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"
)

// monitorInterval is how often a device monitor checks for drainable
// data.
const monitorInterval = 200 * time.Millisecond

// Interrupt is one dispatched event: a device produced a value that a
// registered handler must process.
type Interrupt struct {
	ID       xid.ID
	DeviceID string
	Value    int
}

// Handler processes one dispatched Interrupt.
type Handler func(Interrupt)

// InterruptController drains a set of devices asynchronously: a
// monitor goroutine per device watches for ready-with-data and
// enqueues an Interrupt, and a single dispatcher goroutine drains that
// queue and invokes the device's registered handler.
type InterruptController struct {
	devices  map[string]Device
	handlers map[string]Handler
	queue    chan Interrupt
	logger   logr.Logger

	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewInterruptController creates an InterruptController with the
// given interrupt queue depth.
func NewInterruptController(queueDepth int, logger logr.Logger) *InterruptController {
	return &InterruptController{
		devices:  make(map[string]Device),
		handlers: make(map[string]Handler),
		queue:    make(chan Interrupt, queueDepth),
		logger:   logger,
	}
}

// Register adds a device and the handler invoked for its interrupts.
func (c *InterruptController) Register(d Device, handler Handler) {
	c.devices[d.Name()] = d
	c.handlers[d.Name()] = handler
}

// Start launches one monitor goroutine per registered device plus the
// dispatcher goroutine. It returns immediately.
func (c *InterruptController) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.group, _ = errgroup.WithContext(loopCtx)

	for id, d := range c.devices {
		device := d
		deviceID := id
		c.group.Go(func() error {
			c.monitorDevice(loopCtx, deviceID, device)
			return nil
		})
	}
	c.group.Go(func() error {
		c.dispatch(loopCtx)
		return nil
	})
}

// Stop cancels every monitor and the dispatcher and waits up to
// timeout for them to exit.
func (c *InterruptController) Stop(timeout time.Duration) error {
	if c.cancel == nil {
		return nil
	}
	c.cancel()
	done := make(chan error, 1)
	go func() { done <- c.group.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return context.DeadlineExceeded
	}
}

func (c *InterruptController) monitorDevice(ctx context.Context, deviceID string, d Device) {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !d.Ready() || !d.HasData() {
				continue
			}
			value, ok := d.Read()
			if !ok {
				continue
			}
			interrupt := Interrupt{ID: xid.New(), DeviceID: deviceID, Value: value}
			select {
			case c.queue <- interrupt:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (c *InterruptController) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case interrupt := <-c.queue:
			c.invoke(interrupt)
		}
	}
}

// invoke calls the handler registered for interrupt.DeviceID, catching
// and logging a panic so one misbehaving handler cannot take down the
// dispatcher.
func (c *InterruptController) invoke(interrupt Interrupt) {
	handler, ok := c.handlers[interrupt.DeviceID]
	if !ok {
		c.logger.Info("interrupt for unregistered device", "device", interrupt.DeviceID)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error(fmt.Errorf("%v", r), "interrupt handler panicked", "device", interrupt.DeviceID, "interrupt", interrupt.ID.String())
		}
	}()
	handler(interrupt)
}
