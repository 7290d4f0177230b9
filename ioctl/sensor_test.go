package ioctl_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/greywind-labs/pipesim/ioctl"
)

var _ = Describe("TemperatureSensor", func() {
	It("generates readings scaled into the configured range", func() {
		sensor := ioctl.NewTemperatureSensor("temp0", 10.0, 20.0, 5*time.Millisecond, 42)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sensor.Start(ctx)
		Eventually(sensor.HasData, time.Second, 5*time.Millisecond).Should(BeTrue())

		value, ok := sensor.Read()
		Expect(ok).To(BeTrue())
		Expect(value).To(BeNumerically(">=", 1000))
		Expect(value).To(BeNumerically("<", 2000))

		Expect(sensor.Stop(time.Second)).To(Succeed())
	})

	It("stops its background loop within the given timeout", func() {
		sensor := ioctl.NewTemperatureSensor("temp1", 0, 1, time.Millisecond, 7)
		sensor.Start(context.Background())
		time.Sleep(20 * time.Millisecond)
		Expect(sensor.Stop(time.Second)).To(Succeed())
	})

	It("honors WithBufferSize by capping accumulation", func() {
		sensor := ioctl.NewTemperatureSensor(
			"temp2", 0, 1, time.Millisecond, 3,
			ioctl.WithBufferSize(2),
		)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sensor.Start(ctx)
		time.Sleep(50 * time.Millisecond)
		Expect(sensor.Stop(time.Second)).To(Succeed())

		count := 0
		for {
			if _, ok := sensor.Read(); !ok {
				break
			}
			count++
		}
		Expect(count).To(BeNumerically("<=", 2))
	})
})
