package main

import (
	"fmt"
	"io"
	"log"
)

// lmuControllerClass is the IOService class of the ambient light sensor,
// which also drives the keyboard backlight.
const lmuControllerClass = "AppleLMUController"

// lmuSetLEDBrightness is the AppleLMUController selector for
// setLEDBrightness(int, int, int *).
const lmuSetLEDBrightness = 2

// ledScale is the LED value for full brightness.
const ledScale = 0xfff

// ledValue converts a level in [0, 1] to the controller's fixed-point scale,
// truncating.
func ledValue(level float32) uint64 {
	return uint64(level * ledScale)
}

// keyboard is the keyboard backlight. The controller connection is opened
// on first use and held until close.
type keyboard struct {
	sys    platform
	stdout io.Writer
	logger *log.Logger

	c conn
}

func (k *keyboard) conn() (conn, error) {
	if k.c != nil {
		return k.c, nil
	}
	c, err := k.sys.OpenService(lmuControllerClass)
	if err != nil {
		return nil, err
	}
	k.c = c
	return c, nil
}

// setBrightness sets the backlight to level. A failed lookup is logged;
// a failed call is reported on stdout next to the success line. Neither
// is fatal.
func (k *keyboard) setBrightness(level float32) {
	c, err := k.conn()
	if err != nil {
		k.logger.Println("Cannot connect to keyboard backlight controller:", err)
		return
	}
	in := []uint64{0, ledValue(level)}
	if _, err := c.CallScalarMethod(lmuSetLEDBrightness, in, 1); err != nil {
		fmt.Fprintln(k.stdout, "Error setting keyboard brightness:", err)
		return
	}
	fmt.Fprintf(k.stdout, "keyboard brightness is %f\n", level)
}

func (k *keyboard) close() {
	if k.c == nil {
		return
	}
	if err := k.c.Close(); err != nil {
		k.logger.Println("Error closing keyboard backlight controller:", err)
	}
	k.c = nil
}
