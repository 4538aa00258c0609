// Package syscalls provides the real OS implementations of the provider
// interfaces consumed by the platform layer.
package syscalls

import (
	"os"
	"os/user"

	"golang.org/x/sys/unix"
)

type RealOS struct{}

func (RealOS) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}

func (RealOS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

type RealUnix struct{}

func (RealUnix) Open(path string, mode int, perm uint32) (int, error) {
	return unix.Open(path, mode, perm)
}

func (RealUnix) Close(fd int) error {
	return unix.Close(fd)
}

func (RealUnix) Read(fd int, p []byte) (int, error) {
	return unix.Read(fd, p)
}

func (RealUnix) Write(fd int, p []byte) (int, error) {
	return unix.Write(fd, p)
}

func (RealUnix) Seek(fd int, offset int64, whence int) (int64, error) {
	return unix.Seek(fd, offset, whence)
}

func (RealUnix) Fsync(fd int) error {
	return unix.Fsync(fd)
}

func (RealUnix) Fstat(fd int, stat *unix.Stat_t) error {
	return unix.Fstat(fd, stat)
}

func (RealUnix) Stat(path string, stat *unix.Stat_t) error {
	return unix.Stat(path, stat)
}

func (RealUnix) Lstat(path string, stat *unix.Stat_t) error {
	return unix.Lstat(path, stat)
}

func (RealUnix) Statx(dirfd int, path string, flags int, mask int, stat *unix.Statx_t) error {
	return unix.Statx(dirfd, path, flags, mask, stat)
}

func (RealUnix) Getdents(fd int, buf []byte) (int, error) {
	return unix.Getdents(fd, buf)
}

func (RealUnix) Readlink(path string, buf []byte) (int, error) {
	return unix.Readlink(path, buf)
}

func (RealUnix) Getcwd(buf []byte) (int, error) {
	return unix.Getcwd(buf)
}

func (RealUnix) Mkdir(path string, mode uint32) error {
	return unix.Mkdir(path, mode)
}

func (RealUnix) Unlink(path string) error {
	return unix.Unlink(path)
}

func (RealUnix) Rmdir(path string) error {
	return unix.Rmdir(path)
}

func (RealUnix) Gettid() int {
	return unix.Gettid()
}

type RealUser struct{}

func (RealUser) Current() (*user.User, error) {
	return user.Current()
}
