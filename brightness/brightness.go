// Command brightness reads and sets the brightness of a Mac's main display
// and keyboard backlight.
//
// It can set the backlights well below the minimum level allowed by the
// function keys, which is handy for dimming the keyboard at night (0.01 is a
// good value).
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
)

// brightnessKey is kIODisplayBrightnessKey.
const brightnessKey = "brightness"

// platform is the part of IOKit that brightness uses.
type platform interface {
	// MainDisplay returns the IOService backing the active main display.
	MainDisplay() (display, error)
	// OpenService opens a connection to the first service whose class
	// matches class.
	OpenService(class string) (conn, error)
}

type display interface {
	SetFloatParameter(key string, v float32) error
	FloatParameter(key string) (float32, error)
}

// conn is an open IOKit user client connection.
type conn interface {
	CallScalarMethod(selector uint32, in []uint64, outCount int) ([]uint64, error)
	Close() error
}

func main() {
	os.Exit(run(os.Args[1:], iokit{}, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: brightness [level]

With no arguments, brightness prints the brightness of the main display.
If level is given (0.0 <= level <= 1.0), the main display and the keyboard
backlight are first set to that level. Levels that are not numbers or lie
outside that range are rejected.
`)
}

// parseArgs returns the requested level, if any.
func parseArgs(args []string) (level float32, ok bool, err error) {
	switch len(args) {
	case 0:
		return 0, false, nil
	case 1:
	default:
		return 0, false, errors.New("too many arguments")
	}
	v, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return 0, false, fmt.Errorf("bad level %q: %s", args[0], err)
	}
	if !(v >= 0 && v <= 1) {
		return 0, false, fmt.Errorf("level %s is outside [0, 1]", args[0])
	}
	return float32(v), true, nil
}

// run returns the process exit status: 1 for a usage error, otherwise the
// IOReturn of the final display read (1 if the failure has none).
func run(args []string, sys platform, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", 0)
	level, set, err := parseArgs(args)
	if err != nil {
		logger.Println(err)
		usage(stderr)
		return 1
	}

	// A display lookup failure is reported with the final read.
	disp, err := sys.MainDisplay()

	if set {
		if err == nil {
			// Ignored: the read below reports the outcome.
			_ = disp.SetFloatParameter(brightnessKey, level)
		}

		kbd := &keyboard{sys: sys, stdout: stdout, logger: logger}
		defer kbd.close()
		kbd.setBrightness(level)
	}

	var cur float32
	if err == nil {
		cur, err = disp.FloatParameter(brightnessKey)
	}
	if err != nil {
		logger.Println("operation failed:", err)
		return exitStatus(err)
	}
	fmt.Fprintf(stdout, "brightness of main display is %f\n", cur)
	return 0
}

func exitStatus(err error) int {
	var kr ioReturn
	if errors.As(err, &kr) {
		return int(kr)
	}
	return 1
}
