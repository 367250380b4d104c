package policy

import (
	"os"
	"path/filepath"

	"github.com/jingkaihe/nvidia-hide/internal/errx"
)

// SelfExeLink is the link naming the running executable.
const SelfExeLink = "/proc/self/exe"

// Identity is the running program as seen by allow/deny patterns.
type Identity struct {
	FullPath string
	BaseName string
}

// NewIdentity derives the base name from fullPath.
func NewIdentity(fullPath string) Identity {
	return Identity{FullPath: fullPath, BaseName: filepath.Base(fullPath)}
}

// ReadlinkFunc resolves a symbolic link.
type ReadlinkFunc func(name string) (string, error)

// SelfIdentity reads the identity of the running process. A nil
// readlink uses os.Readlink.
func SelfIdentity(readlink ReadlinkFunc) (*Identity, error) {
	if readlink == nil {
		readlink = os.Readlink
	}
	exe, err := readlink(SelfExeLink)
	if err != nil {
		return nil, errx.Wrap(ErrReadSelfExe, err)
	}
	if exe == "" {
		return nil, ErrReadSelfExe
	}
	id := NewIdentity(exe)
	return &id, nil
}
