package vm

import (
	"bytes"
	"context"
	"log"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/egosmmu/datarecording"
	"github.com/sarchlab/egosmmu/hooking"
)

type namedDomain struct {
	hooking.HookableBase
}

func (d *namedDomain) Name() string {
	return "MMU.SoftTLB"
}

var _ = Describe("EventTracer", func() {
	var (
		mockCtrl *gomock.Controller
		recorder *MockDataRecorder
		domain   *namedDomain
		tracer   *EventTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		recorder = NewMockDataRecorder(mockCtrl)
		recorder.EXPECT().CreateTable("mmu_event", EventRecord{})

		domain = &namedDomain{}
		tracer = NewEventTracer(recorder)
		domain.AcceptHook(tracer)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should record frame events", func() {
		recorder.EXPECT().InsertData("mmu_event", EventRecord{
			Seq:    1,
			Where:  "MMU.SoftTLB",
			What:   "ReadIn",
			PID:    2,
			Frame:  7,
			PageNo: 0x80800,
			FromID: -1,
			ToID:   -1,
		})

		domain.InvokeHook(hooking.HookCtx{
			Domain: domain,
			Pos:    HookPosReadIn,
			Item:   FrameEvent{PID: 2, Frame: 7, PageNo: 0x80800},
		})
	})

	It("should record switch events in order", func() {
		gomock.InOrder(
			recorder.EXPECT().InsertData("mmu_event", gomock.Any()),
			recorder.EXPECT().InsertData("mmu_event", EventRecord{
				Seq:    2,
				Where:  "MMU.SoftTLB",
				What:   "Switch",
				PID:    -1,
				Frame:  -1,
				PageNo: -1,
				FromID: 1,
				ToID:   2,
			}),
		)

		domain.InvokeHook(hooking.HookCtx{
			Domain: domain,
			Pos:    HookPosSwitch,
			Item:   SwitchEvent{From: NoPID, To: 1},
		})
		domain.InvokeHook(hooking.HookCtx{
			Domain: domain,
			Pos:    HookPosSwitch,
			Item:   SwitchEvent{From: 1, To: 2},
		})
	})

	It("should ignore other items", func() {
		domain.InvokeHook(hooking.HookCtx{Domain: domain, Pos: HookPosMap, Item: 3})
	})
})

var _ = Describe("LogHook", func() {
	It("should print frame and switch events", func() {
		buf := &bytes.Buffer{}
		domain := &namedDomain{}
		domain.AcceptHook(NewLogHook(log.New(buf, "", 0)))

		domain.InvokeHook(hooking.HookCtx{
			Domain: domain,
			Pos:    HookPosWriteBack,
			Item:   FrameEvent{PID: 1, Frame: 3, PageNo: 0x80800},
		})
		domain.InvokeHook(hooking.HookCtx{
			Domain: domain,
			Pos:    HookPosSwitch,
			Item:   SwitchEvent{From: 1, To: 2},
		})

		Expect(buf.String()).To(Equal(
			"MMU.SoftTLB WriteBack pid=1 frame=3 page=0x80800\n" +
				"MMU.SoftTLB Switch pid=1 -> pid=2\n"))
	})
})

var _ = Describe("ReadEvents", func() {
	It("should read back the events of one process", func() {
		path := filepath.Join(GinkgoT().TempDir(), "events")
		recorder := datarecording.New(path)
		domain := &namedDomain{}
		domain.AcceptHook(NewEventTracer(recorder))

		domain.InvokeHook(hooking.HookCtx{
			Domain: domain,
			Pos:    HookPosMap,
			Item:   FrameEvent{PID: 1, Frame: 0, PageNo: 0x80800},
		})
		domain.InvokeHook(hooking.HookCtx{
			Domain: domain,
			Pos:    HookPosMap,
			Item:   FrameEvent{PID: 2, Frame: 1, PageNo: 0x80800},
		})
		domain.InvokeHook(hooking.HookCtx{
			Domain: domain,
			Pos:    HookPosSwitch,
			Item:   SwitchEvent{From: NoPID, To: 2},
		})
		Expect(recorder.Close()).To(Succeed())

		reader, err := datarecording.NewReader(path + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		events, err := ReadEvents(context.Background(), reader, 2, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(2))
		Expect(events[0].What).To(Equal("Map"))
		Expect(events[0].Frame).To(Equal(1))
		Expect(events[1].What).To(Equal("Switch"))
		Expect(events[1].ToID).To(Equal(2))

		all, err := ReadEvents(context.Background(), reader, NoPID, 2)

		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
		Expect(all[0].Seq).To(Equal(uint64(1)))
	})
})
