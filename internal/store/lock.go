package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	bundleLockDirName   = ".bundle.lock"
	bundleLockOwnerFile = "owner.json"
)

// BundleLock guards one output directory against concurrent retrieval runs.
type BundleLock struct {
	lockDir string
}

type bundleLockOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

func AcquireBundleLock(bundleDir string) (BundleLock, error) {
	target := strings.TrimSpace(bundleDir)
	if target == "" {
		return BundleLock{}, fmt.Errorf("bundle directory is required")
	}

	lockDir := filepath.Join(target, bundleLockDirName)
	if err := os.Mkdir(lockDir, 0o755); err != nil {
		if os.IsExist(err) {
			ownerPath := filepath.Join(lockDir, bundleLockOwnerFile)
			var owner bundleLockOwner
			if readErr := ReadJSON(ownerPath, &owner); readErr == nil && owner.PID > 0 && owner.CreatedAt != "" {
				return BundleLock{}, fmt.Errorf(
					"bundle directory is locked: %s (pid=%d created_at=%s host=%s)",
					target, owner.PID, owner.CreatedAt, owner.Hostname,
				)
			}
			return BundleLock{}, fmt.Errorf("bundle directory is locked: %s", target)
		}
		return BundleLock{}, fmt.Errorf("acquire bundle lock for %s: %w", target, err)
	}

	owner := bundleLockOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	ownerPath := filepath.Join(lockDir, bundleLockOwnerFile)
	if err := WriteJSON(ownerPath, owner); err != nil {
		_ = os.Remove(lockDir)
		return BundleLock{}, fmt.Errorf("write bundle lock owner for %s: %w", target, err)
	}

	return BundleLock{lockDir: lockDir}, nil
}

func (l BundleLock) Release() error {
	if strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, bundleLockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release bundle lock %s: %w", l.lockDir, err)
	}
	return nil
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}
