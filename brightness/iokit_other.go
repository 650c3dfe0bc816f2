//go:build !darwin

package main

import (
	"fmt"
	"runtime"
)

var errUnsupported = fmt.Errorf("IOKit is not available on %s", runtime.GOOS)

// iokit is a stand-in for platforms without IOKit; every call fails.
type iokit struct{}

func (iokit) MainDisplay() (display, error)    { return nil, errUnsupported }
func (iokit) OpenService(string) (conn, error) { return nil, errUnsupported }
