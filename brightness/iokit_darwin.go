//go:build darwin

package main

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

const (
	coreFoundationPath = "/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation"
	coreGraphicsPath   = "/System/Library/Frameworks/CoreGraphics.framework/CoreGraphics"
	ioKitPath          = "/System/Library/Frameworks/IOKit.framework/IOKit"
	libSystemPath      = "/usr/lib/libSystem.B.dylib"
)

const (
	cfStringEncodingUTF8 = 0x08000100
	ioMainPortDefault    = 0 // MACH_PORT_NULL
)

var (
	cfStringCreateWithCString func(alloc uintptr, cstr string, encoding uint32) uintptr
	cfRelease                 func(cf uintptr)

	cgMainDisplayID        func() uint32
	cgDisplayIOServicePort func(display uint32) uint32

	ioServiceMatching           func(name string) uintptr
	ioServiceGetMatchingService func(mainPort uint32, matching uintptr) uint32
	ioServiceOpen               func(service, owningTask, typ uint32, connect *uint32) uint32
	ioServiceClose              func(connect uint32) uint32
	ioObjectRelease             func(object uint32) uint32
	ioConnectCallScalarMethod   func(connection, selector uint32, input *uint64, inputCnt uint32, output *uint64, outputCnt *uint32) uint32
	ioDisplaySetFloatParameter  func(service, options uint32, key uintptr, value float32) uint32
	ioDisplayGetFloatParameter  func(service, options uint32, key uintptr, value *float32) uint32

	// machTaskSelf is the value of mach_task_self(), which is a macro
	// over the mach_task_self_ variable.
	machTaskSelf uint32

	loadOnce sync.Once
	loadErr  error
)

type symbol struct {
	fptr any
	name string
}

var frameworks = []struct {
	path string
	syms []symbol
}{
	{coreFoundationPath, []symbol{
		{&cfStringCreateWithCString, "CFStringCreateWithCString"},
		{&cfRelease, "CFRelease"},
	}},
	{coreGraphicsPath, []symbol{
		{&cgMainDisplayID, "CGMainDisplayID"},
		{&cgDisplayIOServicePort, "CGDisplayIOServicePort"},
	}},
	{ioKitPath, []symbol{
		{&ioServiceMatching, "IOServiceMatching"},
		{&ioServiceGetMatchingService, "IOServiceGetMatchingService"},
		{&ioServiceOpen, "IOServiceOpen"},
		{&ioServiceClose, "IOServiceClose"},
		{&ioObjectRelease, "IOObjectRelease"},
		{&ioConnectCallScalarMethod, "IOConnectCallScalarMethod"},
		{&ioDisplaySetFloatParameter, "IODisplaySetFloatParameter"},
		{&ioDisplayGetFloatParameter, "IODisplayGetFloatParameter"},
	}},
}

func load() error {
	loadOnce.Do(func() { loadErr = loadFrameworks() })
	return loadErr
}

func loadFrameworks() error {
	for _, fw := range frameworks {
		lib, err := purego.Dlopen(fw.path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			return fmt.Errorf("cannot load %s: %s", fw.path, err)
		}
		for _, sym := range fw.syms {
			addr, err := purego.Dlsym(lib, sym.name)
			if err != nil {
				return fmt.Errorf("cannot find %s in %s: %s", sym.name, fw.path, err)
			}
			purego.RegisterFunc(sym.fptr, addr)
		}
	}

	lib, err := purego.Dlopen(libSystemPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("cannot load %s: %s", libSystemPath, err)
	}
	addr, err := purego.Dlsym(lib, "mach_task_self_")
	if err != nil {
		return fmt.Errorf("cannot find mach_task_self_: %s", err)
	}
	machTaskSelf = **(**uint32)(unsafe.Pointer(&addr))
	return nil
}

// iokit is the real platform.
type iokit struct{}

func (iokit) MainDisplay() (display, error) {
	if err := load(); err != nil {
		return nil, err
	}
	// The display's service port is owned by CoreGraphics; don't release it.
	// A zero port is passed through: the parameter calls then fail with
	// their own IOReturn.
	return ioDisplay(cgDisplayIOServicePort(cgMainDisplayID())), nil
}

func (iokit) OpenService(class string) (conn, error) {
	if err := load(); err != nil {
		return nil, err
	}
	// IOServiceGetMatchingService consumes the matching dictionary.
	svc := ioServiceGetMatchingService(ioMainPortDefault, ioServiceMatching(class))
	if svc == 0 {
		return nil, fmt.Errorf("%s: %w", class, errServiceNotFound)
	}
	// Only the connection is kept.
	defer ioObjectRelease(svc)

	var c uint32
	if err := check(ioServiceOpen(svc, machTaskSelf, 0, &c)); err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", class, err)
	}
	return ioConnect(c), nil
}

type ioDisplay uint32

func (d ioDisplay) SetFloatParameter(key string, v float32) error {
	k := cfString(key)
	defer cfRelease(k)
	return check(ioDisplaySetFloatParameter(uint32(d), 0, k, v))
}

func (d ioDisplay) FloatParameter(key string) (float32, error) {
	k := cfString(key)
	defer cfRelease(k)
	var v float32
	if err := check(ioDisplayGetFloatParameter(uint32(d), 0, k, &v)); err != nil {
		return 0, err
	}
	return v, nil
}

func cfString(s string) uintptr {
	return cfStringCreateWithCString(0, s, cfStringEncodingUTF8)
}

type ioConnect uint32

func (c ioConnect) CallScalarMethod(selector uint32, in []uint64, outCount int) ([]uint64, error) {
	var inp, outp *uint64
	if len(in) > 0 {
		inp = &in[0]
	}
	out := make([]uint64, outCount)
	if outCount > 0 {
		outp = &out[0]
	}
	n := uint32(outCount)
	if err := check(ioConnectCallScalarMethod(uint32(c), selector, inp, uint32(len(in)), outp, &n)); err != nil {
		return nil, err
	}
	return out[:n], nil
}

func (c ioConnect) Close() error {
	return check(ioServiceClose(uint32(c)))
}
