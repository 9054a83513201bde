//go:build headless

// video_frontend_headless.go - Terminal frontend for headless builds

package main

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/term"
)

// RunFrontend drives the engine from a plain ticker and reads raw stdin for
// a quit key. Presentation text is printed once per second; waveforms and
// rasters have nowhere to go without a window.
func RunFrontend(h *Host) error {
	keys, stopKeys := startKeyReader()
	defer stopKeys()

	frames := time.NewTicker(time.Second / FRAME_RATE)
	defer frames.Stop()
	status := time.NewTicker(time.Second)
	defer status.Stop()

	fmt.Print("Running headless; press q to quit.\r\n")
	for {
		select {
		case b := <-keys:
			if b == 'q' || b == 0x03 { // q or Ctrl-C in raw mode
				return nil
			}
		case <-status.C:
			printPresentations(h.Engine().Present())
		case <-frames.C:
			if err := h.Frame(); err != nil {
				return err
			}
		}
	}
}

func printPresentations(panels []Presentation) {
	for _, p := range panels {
		if p.Title == "" && len(p.Lines) == 0 {
			continue
		}
		fmt.Printf("%s\r\n", p.Title)
		for _, line := range p.Lines {
			fmt.Printf("  %s\r\n", line)
		}
	}
}

// startKeyReader puts stdin into non-blocking raw mode and streams bytes on
// the returned channel. The stop function restores the terminal.
func startKeyReader() (<-chan byte, func()) {
	keys := make(chan byte, 8)
	stopCh := make(chan struct{})
	done := make(chan struct{})
	fd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "frontend: failed to set raw mode: %v\n", err)
		close(done)
		return keys, func() {}
	}
	if err := syscall.SetNonblock(fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "frontend: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(fd, oldState)
		close(done)
		return keys, func() {}
	}

	go func() {
		defer close(done)
		buf := make([]byte, 1)
		for {
			select {
			case <-stopCh:
				return
			default:
			}
			n, err := syscall.Read(fd, buf)
			if n > 0 {
				select {
				case keys <- buf[0]:
				default:
				}
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
		}
	}()

	return keys, func() {
		close(stopCh)
		<-done
		_ = syscall.SetNonblock(fd, false)
		_ = term.Restore(fd, oldState)
	}
}
