//go:build linux

package evdevio

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// The _IOC encoding mirrors include/uapi/asm-generic/ioctl.h: direction,
// size, type ('E' for evdev), and command number packed into one value.
// golang-evdev does not expose typed absinfo or capability-bit queries,
// so this package talks to the kernel directly for those two, the same
// way andrieee44/mylib's linux/ioctl package does for the rest of the
// evdev ioctl surface.
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocRead = 2
)

func iocCode(dir, typ, nr uint, size uintptr) uint {
	return dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | uint(size)<<iocSizeShift
}

// absInfoRaw mirrors struct input_absinfo.
type absInfoRaw struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

func eviocgabs(axis uint) uint {
	return iocCode(iocRead, 'E', 0x40+axis, unsafe.Sizeof(absInfoRaw{}))
}

func eviocgbit(ev uint, length uintptr) uint {
	return iocCode(iocRead, 'E', 0x20+ev, length)
}

func ioctlAbsInfo(fd uintptr, axis uint) (absInfoRaw, error) {
	var raw absInfoRaw
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		fd,
		uintptr(eviocgabs(axis)),
		uintptr(unsafe.Pointer(&raw)),
	)
	if errno != 0 {
		return absInfoRaw{}, errno
	}
	return raw, nil
}

func ioctlBits(fd uintptr, ev uint, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		fd,
		uintptr(eviocgbit(ev, uintptr(len(buf)))),
		uintptr(unsafe.Pointer(&buf[0])),
	)
	if errno != 0 {
		return errno
	}
	return nil
}

func testBit(buf []byte, bit uint) bool {
	idx := bit / 8
	if int(idx) >= len(buf) {
		return false
	}
	return buf[idx]&(1<<(bit%8)) != 0
}

// rawInputEvent mirrors struct input_event on a 64-bit Linux kernel:
// a timeval (two 64-bit fields) followed by type/code/value.
type rawInputEvent struct {
	Sec, Usec   int64
	Type, Code  uint16
	Value       int32
}

func writeInputEvent(fd uintptr, e Event) error {
	raw := rawInputEvent{
		Sec:   int64(e.TimeMS / 1000),
		Usec:  int64(e.TimeMS%1000) * 1000,
		Type:  e.Type,
		Code:  e.Code,
		Value: e.Value,
	}
	buf := (*[unsafe.Sizeof(rawInputEvent{})]byte)(unsafe.Pointer(&raw))[:]
	_, err := unix.Write(int(fd), buf)
	return err
}
