// Package netutil classifies failed Telegram API calls.
package netutil

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
	"time"

	tele "gopkg.in/telebot.v4"
)

// Backoff reports whether a failed call may be retried and the wait Telegram
// asked for, if any.
func Backoff(err error) (retry bool, wait time.Duration) {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, 0
	}

	var flood tele.FloodError
	if errors.As(err, &flood) {
		return true, time.Duration(flood.RetryAfter) * time.Second
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 500, 0
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true, 0
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true, 0
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true, 0
	}
	return false, 0
}

// ShouldRetry reports whether err is transient.
func ShouldRetry(err error) bool {
	retry, _ := Backoff(err)
	return retry
}
