package ioctl_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/greywind-labs/pipesim/ioctl"
)

var _ = Describe("FIFO", func() {
	It("starts empty and ready", func() {
		f := ioctl.NewFIFO("dev0", 4)
		Expect(f.Ready()).To(BeTrue())
		Expect(f.HasData()).To(BeFalse())
		_, ok := f.Read()
		Expect(ok).To(BeFalse())
	})

	It("reads back writes in FIFO order", func() {
		f := ioctl.NewFIFO("dev0", 4)
		Expect(f.Write(1)).To(BeTrue())
		Expect(f.Write(2)).To(BeTrue())

		v, ok := f.Read()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(1))

		v, ok = f.Read()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(2))
	})

	It("rejects writes past capacity", func() {
		f := ioctl.NewFIFO("dev0", 2)
		Expect(f.Write(1)).To(BeTrue())
		Expect(f.Write(2)).To(BeTrue())
		Expect(f.Write(3)).To(BeFalse())
	})

	It("reports readiness through State and SetState", func() {
		f := ioctl.NewFIFO("dev0", 2)
		Expect(f.State()).To(Equal(ioctl.StateReady))
		f.SetState(ioctl.StateBusy)
		Expect(f.Ready()).To(BeFalse())
		Expect(f.State().String()).To(Equal("BUSY"))
	})
})
