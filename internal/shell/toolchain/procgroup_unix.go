//go:build unix

package toolchain

import (
	"os/exec"
	"syscall"
)

// killProcessGroup runs cmd in its own process group and makes context
// cancellation kill the whole group, so tools that spawn children
// (poetry, yarn) cannot outlive the timeout.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
