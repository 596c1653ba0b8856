package joystick

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// openPersistent retries for a short while if permission is denied. udev
// sets permissions on a new device node shortly after it is created.
func openPersistent(path string) (fd int, err error) {
	for i := 0; i < 5; i++ {
		fd, err = unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err == nil {
			return fd, nil
		}
		if !errors.Is(err, unix.EACCES) || i == 4 {
			return -1, err
		}
		timer := time.NewTimer(200 * time.Millisecond)
		<-timer.C
		timer.Stop()
	}
	return -1, err
}

func ioctl(fd int, infoType uintptr, dest unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), infoType, uintptr(dest))
	if errno != 0 {
		return fmt.Errorf("ioctl error: %w", errno)
	}
	return nil
}

func ioctlStr(fd int, infoType uintptr, dest *string) error {
	info := make([]byte, 128)
	if err := ioctl(fd, infoType, unsafe.Pointer(&info[0])); err != nil {
		return err
	}
	*dest = escapeString(info)
	return nil
}

func escapeString(src []byte) string {
	n := 0
	for _, b := range src {
		if b != 0 {
			src[n] = b
			n++
		}
	}
	return string(src[:n])
}
