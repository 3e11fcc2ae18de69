package fat16

import "errors"

// Sentinel errors, one per error Kind. Callers compare with errors.Is; every
// error returned by this package wraps one of these through checkpoint.Wrap so
// the original Kind always survives the wrap.
var (
	// ErrBadArgument is returned when a required argument is missing or
	// malformed (e.g. an empty path, an unknown seek whence).
	ErrBadArgument = errors.New("fat16: bad argument")

	// ErrNotFound is returned when the backing file cannot be opened, or a
	// directory path other than the root literal is requested.
	ErrNotFound = errors.New("fat16: not found")

	// ErrNoMemory is returned if decoding a boot sector or directory entry
	// implies an allocation no real disk image would need. The Go runtime
	// does not expose recoverable allocation failure the way malloc does, so
	// this is reachable only via that sanity bound, not via actual OOM.
	ErrNoMemory = errors.New("fat16: allocation refused")

	// ErrIO is returned when the backing store returns fewer sectors than
	// requested, or the underlying read otherwise fails.
	ErrIO = errors.New("fat16: short read from backing store")

	// ErrBadFormat is returned when the boot sector signature is wrong, the
	// two FAT copies disagree, or a cluster chain visits an index outside the
	// volume's data area.
	ErrBadFormat = errors.New("fat16: malformed FAT16 volume")

	// ErrIsDirectory is returned by OpenFile when the matched entry is a
	// directory or volume label, not a regular file.
	ErrIsDirectory = errors.New("fat16: is a directory")

	// ErrNoSuchAddr is returned when a seek target lands outside [0, size].
	ErrNoSuchAddr = errors.New("fat16: seek target out of range")
)
