package vm

import "github.com/sarchlab/egosmmu/hooking"

// Hook positions that the MMU components trigger.
var (
	HookPosFrameAlloc = &hooking.HookPos{Name: "FrameAlloc"}
	HookPosFrameFree  = &hooking.HookPos{Name: "FrameFree"}
	HookPosMap        = &hooking.HookPos{Name: "Map"}
	HookPosWriteBack  = &hooking.HookPos{Name: "WriteBack"}
	HookPosReadIn     = &hooking.HookPos{Name: "ReadIn"}
	HookPosSwitch     = &hooking.HookPos{Name: "Switch"}
)

// FrameEvent is the item of the frame hooks.
type FrameEvent struct {
	PID    PID
	Frame  FrameID
	PageNo PageNo
}

// SwitchEvent is the item of HookPosSwitch.
type SwitchEvent struct {
	From PID
	To   PID
}
