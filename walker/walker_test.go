package walker

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/pagewalk/memory"
)

type hookRecorder struct {
	ctxs []HookCtx
}

func (h *hookRecorder) Func(ctx HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

var _ = Describe("Walker", func() {
	var (
		storage *memory.Storage
		w       *Walker
	)

	BeforeEach(func() {
		storage = memory.NewStorage()
		w = MakeBuilder().
			WithMemory(storage).
			WithRootTable(0).
			Build("Walker")
	})

	writeChainTo := func(frame uint64) {
		storage.WriteWord(0x0000, 0x1001)
		storage.WriteWord(0x1000, 0x2001)
		storage.WriteWord(0x2000, 0x3001)
		storage.WriteWord(0x3000, frame|0x1)
	}

	It("should fault on a completely empty memory", func() {
		pAddr, ok := w.Translate(0)

		Expect(ok).To(BeFalse())
		Expect(pAddr).To(Equal(uint64(0)))
	})

	It("should walk a minimal 4-level chain", func() {
		writeChainTo(0x4000)

		pAddr, ok := w.Translate(0)

		Expect(ok).To(BeTrue())
		Expect(pAddr).To(Equal(uint64(0x4000)))
	})

	It("should carry the page offset into the physical address", func() {
		writeChainTo(0x4000)

		pAddr, ok := w.Translate(0xFFF)

		Expect(ok).To(BeTrue())
		Expect(pAddr).To(Equal(uint64(0x4FFF)))
	})

	It("should fault when the last-level entry is not present", func() {
		writeChainTo(0x4000)
		storage.WriteWord(0x3000, 0x4000)

		_, ok := w.Translate(0)

		Expect(ok).To(BeFalse())
	})

	It("should fault when a middle entry is not present", func() {
		writeChainTo(0x4000)
		storage.WriteWord(0x1000, 0x2000)

		_, ok := w.Translate(0)

		Expect(ok).To(BeFalse())
	})

	It("should index each table with its own field of the address", func() {
		// PML4[1] -> PDPT[2] -> PD[3] -> PT[4] -> frame 0x5000
		vAddr := uint64(1)<<39 | uint64(2)<<30 | uint64(3)<<21 | uint64(4)<<12

		storage.WriteWord(0x0000+1*8, 0x1001)
		storage.WriteWord(0x1000+2*8, 0x2001)
		storage.WriteWord(0x2000+3*8, 0x3001)
		storage.WriteWord(0x3000+4*8, 0x5001)

		pAddr, ok := w.Translate(vAddr | 0x123)

		Expect(ok).To(BeTrue())
		Expect(pAddr).To(Equal(uint64(0x5123)))
	})

	It("should be idempotent", func() {
		writeChainTo(0x4000)

		first, okFirst := w.Translate(0xABC)
		second, okSecond := w.Translate(0xABC)

		Expect(okFirst).To(Equal(okSecond))
		Expect(first).To(Equal(second))
	})

	It("should follow the root-table register", func() {
		storage.WriteWord(0x9000, 0x1001)
		storage.WriteWord(0x1000, 0x2001)
		storage.WriteWord(0x2000, 0x3001)
		storage.WriteWord(0x3000, 0x4001)

		_, okBefore := w.Translate(0)
		w.SetRootTable(0x9000)
		pAddr, okAfter := w.Translate(0)

		Expect(okBefore).To(BeFalse())
		Expect(w.RootTable()).To(Equal(uint64(0x9000)))
		Expect(okAfter).To(BeTrue())
		Expect(pAddr).To(Equal(uint64(0x4000)))
	})

	It("should invoke hooks along the walk", func() {
		writeChainTo(0x4000)
		recorder := &hookRecorder{}
		w.AcceptHook(recorder)

		w.Translate(0)

		Expect(recorder.ctxs).To(HaveLen(6))
		Expect(recorder.ctxs[0].Pos).To(BeIdenticalTo(HookPosWalkStart))
		Expect(recorder.ctxs[1].Pos).To(BeIdenticalTo(HookPosWalkStep))
		Expect(recorder.ctxs[1].Item.(Step).Level.Name).To(Equal("PML4"))
		Expect(recorder.ctxs[4].Item.(Step).Level.Name).To(Equal("PT"))
		Expect(recorder.ctxs[5].Pos).To(BeIdenticalTo(HookPosWalkEnd))
		Expect(recorder.ctxs[5].Item.(Result).PAddr).To(Equal(uint64(0x4000)))
	})

	It("should report the faulting level to hooks", func() {
		writeChainTo(0x4000)
		storage.WriteWord(0x2000, 0x3000)
		recorder := &hookRecorder{}
		w.AcceptHook(recorder)

		w.Translate(0)

		end := recorder.ctxs[len(recorder.ctxs)-1]
		Expect(end.Pos).To(BeIdenticalTo(HookPosWalkEnd))
		Expect(end.Item.(Result).Fault).To(BeTrue())
		Expect(end.Item.(Result).FaultLevel).To(Equal("PD"))
	})
})

var _ = Describe("Walker with mocked memory", func() {
	var (
		mockCtrl *gomock.Controller
		mem      *MockMemory
		w        *Walker
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mem = NewMockMemory(mockCtrl)
		w = MakeBuilder().
			WithMemory(mem).
			WithRootTable(0x1000).
			Build("Walker")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should stop reading after the first absent entry", func() {
		mem.EXPECT().ReadWord(uint64(0x1000)).Return(uint64(0))

		_, ok := w.Translate(0)

		Expect(ok).To(BeFalse())
	})

	It("should perform exactly four dependent reads on a full walk", func() {
		mem.EXPECT().ReadWord(uint64(0x1000)).Return(uint64(0x2001))
		mem.EXPECT().ReadWord(uint64(0x2000)).Return(uint64(0x3001))
		mem.EXPECT().ReadWord(uint64(0x3000)).Return(uint64(0x4001))
		mem.EXPECT().ReadWord(uint64(0x4000)).Return(uint64(0x5001))

		pAddr, ok := w.Translate(0)

		Expect(ok).To(BeTrue())
		Expect(pAddr).To(Equal(uint64(0x5000)))
	})
})

var _ = Describe("EntryPresent", func() {
	It("should accept entries with the present bit set", func() {
		Expect(EntryPresent(0x1001)).To(BeTrue())
		Expect(EntryPresent(0xFFF)).To(BeTrue())
		Expect(EntryPresent(1)).To(BeTrue())
	})

	It("should reject entries with the present bit clear", func() {
		Expect(EntryPresent(0x1000)).To(BeFalse())
		Expect(EntryPresent(0xFFE)).To(BeFalse())
		Expect(EntryPresent(0)).To(BeFalse())
	})
})

var _ = Describe("EntryTableAddr", func() {
	It("should name a 4KB-aligned address", func() {
		Expect(EntryTableAddr(0x1001)).To(Equal(uint64(0x1000)))
		Expect(EntryTableAddr(0xFFF)).To(Equal(uint64(0)))
	})

	It("should ignore bits above the address field", func() {
		entry := uint64(1)<<63 | 0x4001
		Expect(EntryTableAddr(entry)).To(Equal(uint64(0x4000)))
	})
})
