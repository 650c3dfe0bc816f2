package main

import (
	"errors"
	"fmt"
)

var errServiceNotFound = errors.New("no matching IOService")

// ioReturn is an IOReturn (kern_return_t) status.
type ioReturn uint32

const ioReturnSuccess ioReturn = 0

// Values from IOKit/IOReturn.h (sys_iokit | sub_iokit_common | code).
const (
	ioReturnError           ioReturn = 0xe00002bc
	ioReturnNoMemory        ioReturn = 0xe00002bd
	ioReturnNoResources     ioReturn = 0xe00002be
	ioReturnIPCError        ioReturn = 0xe00002bf
	ioReturnNoDevice        ioReturn = 0xe00002c0
	ioReturnNotPrivileged   ioReturn = 0xe00002c1
	ioReturnBadArgument     ioReturn = 0xe00002c2
	ioReturnExclusiveAccess ioReturn = 0xe00002c5
	ioReturnUnsupported     ioReturn = 0xe00002c7
	ioReturnNotOpen         ioReturn = 0xe00002cd
	ioReturnBusy            ioReturn = 0xe00002d5
	ioReturnNotReady        ioReturn = 0xe00002d8
	ioReturnNotPermitted    ioReturn = 0xe00002e2
	ioReturnNotResponding   ioReturn = 0xe00002ed
	ioReturnNotFound        ioReturn = 0xe00002f0
)

var ioReturnNames = map[ioReturn]string{
	ioReturnError:           "kIOReturnError",
	ioReturnNoMemory:        "kIOReturnNoMemory",
	ioReturnNoResources:     "kIOReturnNoResources",
	ioReturnIPCError:        "kIOReturnIPCError",
	ioReturnNoDevice:        "kIOReturnNoDevice",
	ioReturnNotPrivileged:   "kIOReturnNotPrivileged",
	ioReturnBadArgument:     "kIOReturnBadArgument",
	ioReturnExclusiveAccess: "kIOReturnExclusiveAccess",
	ioReturnUnsupported:     "kIOReturnUnsupported",
	ioReturnNotOpen:         "kIOReturnNotOpen",
	ioReturnBusy:            "kIOReturnBusy",
	ioReturnNotReady:        "kIOReturnNotReady",
	ioReturnNotPermitted:    "kIOReturnNotPermitted",
	ioReturnNotResponding:   "kIOReturnNotResponding",
	ioReturnNotFound:        "kIOReturnNotFound",
}

func (r ioReturn) Error() string {
	if name, ok := ioReturnNames[r]; ok {
		return fmt.Sprintf("%s (0x%08x)", name, uint32(r))
	}
	return fmt.Sprintf("IOReturn 0x%08x", uint32(r))
}

// check converts a raw status into an error, nil on success.
func check(kr uint32) error {
	if ioReturn(kr) == ioReturnSuccess {
		return nil
	}
	return ioReturn(kr)
}
