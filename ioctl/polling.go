package ioctl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

// PollingController drives a set of devices synchronously: every
// operation either succeeds immediately or reports why it could not.
type PollingController struct {
	devices map[string]Device
	logger  logr.Logger
}

// NewPollingController creates an empty PollingController.
func NewPollingController(logger logr.Logger) *PollingController {
	return &PollingController{
		devices: make(map[string]Device),
		logger:  logger,
	}
}

// Register adds a device under its own name.
func (c *PollingController) Register(d Device) {
	c.devices[d.Name()] = d
}

// Device returns the named device, if registered.
func (c *PollingController) Device(id string) (Device, bool) {
	d, ok := c.devices[id]
	return d, ok
}

// Read returns a datum from device id if it is ready and has data.
// Any other condition is reported through err and logged as an
// advisory rather than treated as fatal.
func (c *PollingController) Read(id string) (int, error) {
	d, ok := c.devices[id]
	if !ok {
		err := fmt.Errorf("ioctl: unknown device %q", id)
		c.logger.Info("poll read failed", "reason", err.Error())
		return 0, err
	}
	if !d.Ready() {
		err := fmt.Errorf("ioctl: device %q not ready", id)
		c.logger.Info("poll read failed", "reason", err.Error())
		return 0, err
	}
	if !d.HasData() {
		err := fmt.Errorf("ioctl: device %q has no data", id)
		c.logger.Info("poll read failed", "reason", err.Error())
		return 0, err
	}
	value, ok := d.Read()
	if !ok {
		err := fmt.Errorf("ioctl: device %q read raced empty", id)
		c.logger.Info("poll read failed", "reason", err.Error())
		return 0, err
	}
	return value, nil
}

// Write pushes v to device id if it is ready.
func (c *PollingController) Write(id string, v int) error {
	d, ok := c.devices[id]
	if !ok {
		err := fmt.Errorf("ioctl: unknown device %q", id)
		c.logger.Info("poll write failed", "reason", err.Error())
		return err
	}
	if !d.Ready() {
		err := fmt.Errorf("ioctl: device %q not ready", id)
		c.logger.Info("poll write failed", "reason", err.Error())
		return err
	}
	if !d.Write(v) {
		err := fmt.Errorf("ioctl: device %q buffer full", id)
		c.logger.Info("poll write failed", "reason", err.Error())
		return err
	}
	return nil
}

// WaitAndRead polls device id until it is ready with data or timeout
// elapses, whichever comes first.
func (c *PollingController) WaitAndRead(ctx context.Context, id string, timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	const pollInterval = 100 * time.Millisecond

	for {
		if value, err := c.Read(id); err == nil {
			return value, nil
		}
		if time.Now().After(deadline) {
			err := fmt.Errorf("ioctl: timed out waiting for device %q", id)
			c.logger.Info("wait-and-read timed out", "device", id)
			return 0, err
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
