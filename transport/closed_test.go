// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"testing"
)

func TestIsExpectedClose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"eof", io.EOF, true},
		{"wrapped eof", fmt.Errorf("reading frame: %w", io.EOF), true},
		{"closed", net.ErrClosed, true},
		{"reset", &net.OpError{Op: "read", Err: os.NewSyscallError("read", syscall.ECONNRESET)}, true},
		{"broken pipe", &net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.EPIPE)}, true},
		{"truncated frame", io.ErrUnexpectedEOF, false},
		{"refused", syscall.ECONNREFUSED, false},
		{"other", errors.New("frame too large"), false},
	}
	for _, test := range tests {
		if got := IsExpectedClose(test.err); got != test.want {
			t.Errorf("IsExpectedClose(%s) = %v, want %v", test.name, got, test.want)
		}
	}
}
