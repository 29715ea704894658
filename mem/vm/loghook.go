package vm

import (
	"log"

	"github.com/sarchlab/egosmmu/hooking"
)

// A LogHook prints the frame and switch hooks.
type LogHook struct {
	*log.Logger
}

// NewLogHook creates a LogHook that writes with logger.
func NewLogHook(logger *log.Logger) *LogHook {
	return &LogHook{Logger: logger}
}

// Func prints the hook.
func (h *LogHook) Func(ctx hooking.HookCtx) {
	where := ""
	if n, ok := ctx.Domain.(named); ok {
		where = n.Name()
	}

	switch item := ctx.Item.(type) {
	case FrameEvent:
		h.Printf("%s %s pid=%d frame=%d page=0x%05x",
			where, ctx.Pos.Name, item.PID, item.Frame, item.PageNo)
	case SwitchEvent:
		h.Printf("%s %s pid=%d -> pid=%d",
			where, ctx.Pos.Name, item.From, item.To)
	}
}
