package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

var errWriterClosed = errors.New("logger: writer closed")

// asyncWriter moves encoded lines off the logging goroutine and fans them out
// to every sink. The buffer is flushed whenever the queue drains.
type asyncWriter struct {
	lines chan []byte
	flush chan chan error
	done  chan struct{}
	out   *bufio.Writer

	// mu guards closed; Write holds it shared so Close cannot close lines mid-send.
	mu     sync.RWMutex
	closed bool

	errMu sync.Mutex
	err   error
}

func newAsyncWriter(sinks []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	live := sinks[:0:0]
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	w := &asyncWriter{
		lines: make(chan []byte, 256),
		flush: make(chan chan error),
		done:  make(chan struct{}),
		out:   bufio.NewWriterSize(io.MultiWriter(live...), bufSize),
	}
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	defer close(w.done)
	for {
		select {
		case line, ok := <-w.lines:
			if !ok {
				w.fail(w.out.Flush())
				return
			}
			if _, err := w.out.Write(line); err != nil {
				w.fail(err)
				continue
			}
			if len(w.lines) == 0 {
				w.fail(w.out.Flush())
			}
		case ack := <-w.flush:
			ack <- w.out.Flush()
		}
	}
}

// Write queues a copy of p. It blocks when the queue is full.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.firstErr(); err != nil {
		return err
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return errWriterClosed
	}
	if len(p) == 0 {
		return nil
	}
	w.lines <- append([]byte(nil), p...)
	return nil
}

// Flush blocks until everything queued so far reached the sinks.
func (w *asyncWriter) Flush() error {
	if err := w.firstErr(); err != nil {
		return err
	}
	w.mu.RLock()
	closed := w.closed
	w.mu.RUnlock()
	if closed {
		return nil
	}
	ack := make(chan error, 1)
	select {
	case w.flush <- ack:
		return <-ack
	case <-w.done:
		return w.firstErr()
	}
}

// Close drains the queue and returns the first write error, if any.
func (w *asyncWriter) Close() error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.lines)
	}
	w.mu.Unlock()
	<-w.done
	return w.firstErr()
}

func (w *asyncWriter) fail(err error) {
	if err == nil {
		return
	}
	w.errMu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.errMu.Unlock()
}

func (w *asyncWriter) firstErr() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}
