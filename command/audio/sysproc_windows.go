//go:build windows

package audio

import (
	"os/exec"
	"syscall"
)

// createNoWindow keeps ffmpeg from flashing a console window when the
// converter runs from a GUI host.
const createNoWindow = 0x08000000

func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: createNoWindow,
	}
}
