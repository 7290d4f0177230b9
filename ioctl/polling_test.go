package ioctl_test

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/greywind-labs/pipesim/ioctl"
)

var _ = Describe("PollingController", func() {
	var (
		controller *ioctl.PollingController
		device     *ioctl.FIFO
	)

	BeforeEach(func() {
		controller = ioctl.NewPollingController(logr.Discard())
		device = ioctl.NewFIFO("dev0", 4)
		controller.Register(device)
	})

	It("reads a value once the device has data", func() {
		device.Write(42)
		value, err := controller.Read("dev0")
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal(42))
	})

	It("reports an error for an unknown device", func() {
		_, err := controller.Read("missing")
		Expect(err).To(HaveOccurred())
	})

	It("reports an error when the device is not ready", func() {
		device.SetState(ioctl.StateBusy)
		device.Write(1)
		_, err := controller.Read("dev0")
		Expect(err).To(HaveOccurred())
	})

	It("reports an error when the device has no data", func() {
		_, err := controller.Read("dev0")
		Expect(err).To(HaveOccurred())
	})

	It("rejects writes past the device's capacity", func() {
		for i := 0; i < 4; i++ {
			Expect(controller.Write("dev0", i)).To(Succeed())
		}
		Expect(controller.Write("dev0", 99)).To(HaveOccurred())
	})

	It("waits for data and returns it once available", func() {
		go func() {
			time.Sleep(30 * time.Millisecond)
			device.Write(7)
		}()
		value, err := controller.WaitAndRead(context.Background(), "dev0", 500*time.Millisecond)
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal(7))
	})

	It("times out when data never arrives", func() {
		_, err := controller.WaitAndRead(context.Background(), "dev0", 30*time.Millisecond)
		Expect(err).To(HaveOccurred())
	})

	It("returns early when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		_, err := controller.WaitAndRead(ctx, "dev0", time.Second)
		Expect(err).To(Equal(context.Canceled))
	})
})
