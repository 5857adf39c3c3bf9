//go:build !windows

package main

// raisePriority is a no-op outside Windows. Run the binary under nice(1)
// to change its scheduling priority there.
func raisePriority() error {
	return nil
}
