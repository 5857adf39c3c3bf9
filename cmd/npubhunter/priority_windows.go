//go:build windows

package main

import (
	"syscall"
	"unsafe"
)

const (
	highPriorityClass        = 0x00000080
	aboveNormalPriorityClass = 0x00008000

	processPowerThrottling               = 4
	processPowerThrottlingExecutionSpeed = 0x1
)

var (
	kernel32                  = syscall.NewLazyDLL("kernel32.dll")
	procGetCurrentProcess     = kernel32.NewProc("GetCurrentProcess")
	procSetPriorityClass      = kernel32.NewProc("SetPriorityClass")
	procSetProcessInformation = kernel32.NewProc("SetProcessInformation")
)

type powerThrottlingState struct {
	Version     uint32
	ControlMask uint32
	StateMask   uint32
}

// raisePriority moves the process to the high priority class (above normal
// if that is refused) and opts it out of Efficiency Mode.
func raisePriority() error {
	handle, _, _ := procGetCurrentProcess.Call()

	if ret, _, _ := procSetPriorityClass.Call(handle, highPriorityClass); ret == 0 {
		if ret, _, err := procSetPriorityClass.Call(handle, aboveNormalPriorityClass); ret == 0 {
			return err
		}
	}

	// Windows 10 1709+; older systems just keep throttling.
	state := powerThrottlingState{
		Version:     1,
		ControlMask: processPowerThrottlingExecutionSpeed,
	}
	_, _, _ = procSetProcessInformation.Call(
		handle,
		processPowerThrottling,
		uintptr(unsafe.Pointer(&state)),
		unsafe.Sizeof(state),
	)
	return nil
}
