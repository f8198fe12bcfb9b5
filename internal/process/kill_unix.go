//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid so that
// Chrome helper processes die with the browser.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best effort: launcher.Kill covers the leader if this fails.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
