// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package linereader

import (
	"golang.org/x/sys/unix"
)

// Notifier delivers input-readiness events for a terminal. Subscribe
// installs a callback that runs on the event loop each time input is
// waiting; Unsubscribe detaches it. A Notifier never reads the input
// itself — consuming the bytes is the subscriber's job.
type Notifier interface {
	Subscribe(onReady func())
	Unsubscribe()
}

// pollIntervalMs is the poll(2) timeout. The interval only bounds how
// quickly Unsubscribe is observed, not input latency — poll returns
// immediately when input arrives.
const pollIntervalMs = 100

// PollNotifier watches a file descriptor with poll(2) from a
// background goroutine and posts readiness onto the event loop. After
// each delivery it waits for the loop to finish consuming before
// polling again, so a slow handler never piles up events.
type PollNotifier struct {
	fd   int
	post func(func())
	stop chan struct{}
}

// NewPollNotifier creates a notifier for fd. post must schedule a
// function onto the session's event loop.
func NewPollNotifier(fd int, post func(func())) *PollNotifier {
	if fd < 0 {
		panic("linereader: poll notifier requires a real file descriptor")
	}
	if post == nil {
		panic("linereader: poll notifier requires a post function")
	}
	return &PollNotifier{fd: fd, post: post}
}

// Subscribe starts watching. Calling Subscribe while already
// subscribed is a programming error — the readers guarantee they
// never do (that is the no-double-subscribe invariant).
func (n *PollNotifier) Subscribe(onReady func()) {
	if n.stop != nil {
		panic("linereader: notifier already subscribed")
	}
	stop := make(chan struct{})
	n.stop = stop
	go n.watch(onReady, stop)
}

// Unsubscribe stops watching. Idempotent. The watcher goroutine may
// observe the stop slightly later; any readiness it already posted is
// suppressed before the callback runs.
func (n *PollNotifier) Unsubscribe() {
	if n.stop == nil {
		return
	}
	close(n.stop)
	n.stop = nil
}

func (n *PollNotifier) watch(onReady func(), stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		pollSet := []unix.PollFd{{Fd: int32(n.fd), Events: unix.POLLIN}}
		count, err := unix.Poll(pollSet, pollIntervalMs)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return
		}
		if count == 0 {
			continue
		}

		// Hand the event to the loop and wait until it has been
		// consumed. The stopped check runs on the loop so a callback
		// never fires after Unsubscribe returned there.
		consumed := make(chan struct{})
		n.post(func() {
			defer close(consumed)
			select {
			case <-stop:
				return
			default:
			}
			onReady()
		})

		select {
		case <-consumed:
		case <-stop:
			return
		}
	}
}
