package vm

import (
	"context"

	"github.com/sarchlab/egosmmu/datarecording"
	"github.com/sarchlab/egosmmu/hooking"
)

// EventTableName is the table that EventTracer writes to.
const EventTableName = "mmu_event"

// An EventRecord is one row of the event table. Fields that do not apply to
// the event hold -1.
type EventRecord struct {
	Seq    uint64
	Where  string
	What   string
	PID    int
	Frame  int
	PageNo int64
	FromID int
	ToID   int
}

type named interface {
	Name() string
}

// An EventTracer records every frame and switch hook into a data recorder.
type EventTracer struct {
	recorder datarecording.DataRecorder
	seq      uint64
}

// NewEventTracer creates an EventTracer and the table it writes to.
func NewEventTracer(recorder datarecording.DataRecorder) *EventTracer {
	t := &EventTracer{recorder: recorder}
	t.recorder.CreateTable(EventTableName, EventRecord{})

	return t
}

// Func records the hook.
func (t *EventTracer) Func(ctx hooking.HookCtx) {
	entry := EventRecord{
		What:   ctx.Pos.Name,
		PID:    int(NoPID),
		Frame:  -1,
		PageNo: -1,
		FromID: int(NoPID),
		ToID:   int(NoPID),
	}

	switch item := ctx.Item.(type) {
	case FrameEvent:
		entry.PID = int(item.PID)
		entry.Frame = int(item.Frame)
		entry.PageNo = int64(item.PageNo)
	case SwitchEvent:
		entry.FromID = int(item.From)
		entry.ToID = int(item.To)
	default:
		return
	}

	if n, ok := ctx.Domain.(named); ok {
		entry.Where = n.Name()
	}

	t.seq++
	entry.Seq = t.seq

	t.recorder.InsertData(EventTableName, entry)
}

// ReadEvents returns the recorded events in the order they happened. With a
// valid pid, only the events that involve pid are returned. A limit of zero
// returns everything.
func ReadEvents(
	ctx context.Context,
	reader datarecording.DataReader,
	pid PID,
	limit int,
) ([]EventRecord, error) {
	reader.MapTable(EventTableName, EventRecord{})

	params := datarecording.QueryParams{
		OrderBy: "Seq",
		Limit:   limit,
	}

	if pid.Valid() {
		params.Where = "PID = ? OR FromID = ? OR ToID = ?"
		params.Args = []any{int(pid), int(pid), int(pid)}
	}

	rows, _, err := reader.Query(ctx, EventTableName, params)
	if err != nil {
		return nil, err
	}

	events := make([]EventRecord, 0, len(rows))
	for _, row := range rows {
		events = append(events, *row.(*EventRecord))
	}

	return events, nil
}
