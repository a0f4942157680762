package walker

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pagewalk/memory"
)

var _ = Describe("WalkLogger", func() {
	var (
		buf     bytes.Buffer
		storage *memory.Storage
		w       *Walker
	)

	BeforeEach(func() {
		buf.Reset()
		storage = memory.NewStorage()
		w = MakeBuilder().WithMemory(storage).Build("Walker")
		w.AcceptHook(NewWalkLogger(log.New(&buf, "", 0)))
	})

	It("should log every level of a successful walk", func() {
		storage.WriteWord(0x0000, 0x1001)
		storage.WriteWord(0x1000, 0x2001)
		storage.WriteWord(0x2000, 0x3001)
		storage.WriteWord(0x3000, 0x4001)

		w.Translate(0)

		out := buf.String()
		Expect(out).To(ContainSubstring("Walker: translate"))
		Expect(out).To(ContainSubstring("PML4[0]"))
		Expect(out).To(ContainSubstring("PT[0]"))
		Expect(out).To(ContainSubstring("paddr 0x0000000000004000"))
	})

	It("should log the faulting level", func() {
		w.Translate(0)

		Expect(buf.String()).To(ContainSubstring("fault at PML4"))
	})
})
