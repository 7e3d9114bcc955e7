package bootcfg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// FileAccess abstracts reading and writing protected system files so the
// patcher can be tested against an in-memory stand-in.
type FileAccess interface {
	Exists(path string) bool
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
}

// sudoTimeout bounds the privileged subprocess fallback so a stuck
// credential prompt cannot hang the caller.
const sudoTimeout = 5 * time.Second

// OSFileAccess reads and writes files directly, falling back to a sudo
// subprocess when direct access is denied.
type OSFileAccess struct{}

func (OSFileAccess) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileAccess) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil || !errors.Is(err, os.ErrPermission) {
		return data, err
	}

	ctx, cancel := context.WithTimeout(ctx, sudoTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "sudo", "-n", "cat", path).Output()
	if err != nil {
		return nil, fmt.Errorf("privileged read of %s failed (%v): %w", path, err, os.ErrPermission)
	}
	return out, nil
}

func (OSFileAccess) WriteFile(ctx context.Context, path string, data []byte) error {
	err := os.WriteFile(path, data, 0644)
	if err == nil || !errors.Is(err, os.ErrPermission) {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, sudoTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "sudo", "-n", "tee", path)
	cmd.Stdin = bytes.NewReader(data)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("privileged write of %s failed (%v: %s): %w", path, err, bytes.TrimSpace(out), os.ErrPermission)
	}
	return nil
}
