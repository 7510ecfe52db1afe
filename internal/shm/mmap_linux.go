//go:build linux

package shm

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// POSIX shared memory on Linux lives in the tmpfs mounted at /dev/shm;
// shm_open(3) is open(2) against this directory.
const shmDir = "/dev/shm"

func objectPath(name string) string {
	return shmDir + "/" + name
}

// mapCreate allocates a new shared-memory object of exactly size bytes and
// maps it read-write. A half-created object is removed on any failure path so
// the name is reusable.
func mapCreate(name string, size int) ([]byte, error) {
	path := objectPath(name)

	fd, err := unix.Open(path, unix.O_CREAT|unix.O_EXCL|unix.O_RDWR|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return nil, os.NewSyscallError("open", err)
	}
	defer unix.Close(fd)

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Unlink(path)
		return nil, os.NewSyscallError("ftruncate", err)
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Unlink(path)
		return nil, os.NewSyscallError("mmap", err)
	}

	return data, nil
}

// mapOpen attaches to an existing object, mapping whatever size it was
// created with.
func mapOpen(name string) ([]byte, error) {
	fd, err := unix.Open(objectPath(name), unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("open", err)
	}
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, os.NewSyscallError("fstat", err)
	}
	if st.Size <= 0 {
		return nil, fmt.Errorf("object has zero size")
	}

	data, err := unix.Mmap(fd, 0, int(st.Size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, os.NewSyscallError("mmap", err)
	}

	return data, nil
}

func unmapSegment(data []byte) error {
	return unix.Munmap(data)
}

// removeObject unlinks the OS-level object. Removal belongs to the engine
// side of the contract, so it is deliberately not exported; tests use it to
// clean up after themselves.
func removeObject(name string) error {
	return unix.Unlink(objectPath(name))
}
