package assoc

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is used in structure padding to prevent false sharing.
// It's taken from the `golang.org/x/sys` package for the target CPU.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})
