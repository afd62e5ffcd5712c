package browser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/lite-lake/tenten-ddns/internal/constants"
	"github.com/lite-lake/tenten-ddns/internal/domain"
)

// ProfileLock keeps two runs from opening the same persistent profile.
type ProfileLock struct {
	flock *flock.Flock
}

// AcquireProfileLock takes a non-blocking lock inside dir. An empty dir
// means a throwaway profile and needs no lock.
func AcquireProfileLock(dir string) (*ProfileLock, error) {
	if dir == "" {
		return &ProfileLock{}, nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating profile directory %s: %w", dir, err)
	}

	fl := flock.New(filepath.Join(dir, constants.ProfileLockFile))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring profile lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", domain.ErrProfileLocked, dir)
	}
	return &ProfileLock{flock: fl}, nil
}

func (l *ProfileLock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}
