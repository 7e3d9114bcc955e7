package bootcfg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultPath is where Raspberry Pi OS keeps the boot configuration.
const DefaultPath = "/boot/config.txt"

// BackupSuffix is appended to the target path to form the one-time backup.
const BackupSuffix = ".spotipi.backup"

const hdmiKey = "hdmi"

// Overrides adjusts the desired directive states normally derived from the
// option table. Nil booleans mean "use the default". OverlayName, when set,
// takes precedence over the table's overlay for the selected option.
type Overrides struct {
	I2CArm       *bool
	I2S          *bool
	SPI          *bool
	OnboardAudio *bool
	OverlayName  string
}

func (ov Overrides) hwDesired(flag string) bool {
	var p *bool
	switch flag {
	case flagI2CArm:
		p = ov.I2CArm
	case flagI2S:
		p = ov.I2S
	case flagSPI:
		p = ov.SPI
	}
	if p == nil {
		return true
	}
	return *p
}

// Patcher rewrites the boot configuration file for a selected audio output.
// It is not safe for concurrent use against the same target file; callers
// serialize setup actions.
type Patcher struct {
	fs         FileAccess
	path       string
	backupPath string
}

// NewPatcher creates a Patcher for the given target file. The backup lives
// at a fixed sibling path next to the target.
func NewPatcher(fs FileAccess, path string) *Patcher {
	return &Patcher{fs: fs, path: path, backupPath: path + BackupSuffix}
}

// BackupPath returns the sibling path holding the pristine pre-patch copy.
func (p *Patcher) BackupPath() string { return p.backupPath }

// ConfigureAudioOutput rewrites the boot configuration for the audio output
// named by key. It never propagates a fault: every outcome is reported as a
// (success, message) pair. When the target file does not exist the call is a
// no-op success, which keeps development machines working without a Pi.
func (p *Patcher) ConfigureAudioOutput(ctx context.Context, key string, ov Overrides) (success bool, message string) {
	opt, ok := LookupOption(key)
	if !ok {
		return false, fmt.Sprintf("unknown audio option: %s", key)
	}

	if !p.fs.Exists(p.path) {
		return true, fmt.Sprintf("audio option %q selected (%s not found, skipping)", opt.Name, p.path)
	}

	// Nothing may escape the patcher boundary, including a programming
	// error in the rewrite pipeline.
	defer func() {
		if r := recover(); r != nil {
			success = false
			message = fmt.Sprintf("error configuring audio: %v", r)
		}
	}()

	if err := p.backupOnce(ctx); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return false, fmt.Sprintf("permission denied backing up %s: %v; grant the spotipi service write access", p.path, err)
		}
		return false, fmt.Sprintf("error configuring audio: %v", err)
	}

	raw, err := p.fs.ReadFile(ctx, p.path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return false, fmt.Sprintf("permission denied reading %s: %v; grant the spotipi service read access", p.path, err)
		}
		return false, fmt.Sprintf("error configuring audio: %v", err)
	}

	content := rewrite(string(raw), opt, ov)

	if err := p.fs.WriteFile(ctx, p.path, []byte(content)); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return false, fmt.Sprintf("permission denied writing %s: %v; grant the spotipi service write access", p.path, err)
		}
		return false, fmt.Sprintf("error configuring audio: %v", err)
	}

	return true, fmt.Sprintf("audio output configured: %s; reboot required for changes to take effect", opt.Name)
}

// backupOnce snapshots the pristine target file. Once the backup exists it is
// never overwritten, so it always holds the pre-patcher state.
func (p *Patcher) backupOnce(ctx context.Context) error {
	if p.fs.Exists(p.backupPath) {
		return nil
	}
	data, err := p.fs.ReadFile(ctx, p.path)
	if err != nil {
		return err
	}
	return p.fs.WriteFile(ctx, p.backupPath, data)
}

// rewrite derives the new file content. Pure: it sees only the old content,
// the selected option, and the overrides.
func rewrite(content string, opt Option, ov Overrides) string {
	lines := classifyAll(strings.Split(content, "\n"))

	// Purge every managed DAC overlay regardless of the new selection.
	kept := lines[:0]
	for _, l := range lines {
		if l.kind == kindOverlay && isDACOverlay(l.overlay) {
			continue
		}
		kept = append(kept, l)
	}
	lines = kept

	// Hardware interface flags. Missing flags that should be enabled are
	// inserted at a cursor starting before the first enabled flag line, so
	// newly inserted flags keep the i2c_arm, i2s, spi order.
	cursor := -1
	for _, name := range hwFlagOrder {
		want := ov.hwDesired(name)
		idx := findHWFlag(lines, name)
		switch {
		case idx >= 0 && want:
			lines[idx] = classify("dtparam=" + name + "=on")
		case idx >= 0 && !want:
			lines[idx] = classify(commented(lines[idx].text))
		case idx < 0 && want:
			if cursor < 0 {
				cursor = hwInsertPoint(lines)
			}
			lines = insertAt(lines, cursor, classify("dtparam="+name+"=on"))
			cursor++
		}
	}

	overlay := ov.OverlayName
	if overlay == "" {
		overlay = opt.Overlay
	}

	// Onboard audio: on for overlay-less options other than HDMI, off when a
	// DAC overlay drives the audio path, off for HDMI unless overridden.
	wantAudio := overlay == "" && opt.Key != hdmiKey
	if ov.OnboardAudio != nil {
		wantAudio = *ov.OnboardAudio
	}
	if idx := findAudioFlag(lines); idx >= 0 {
		if wantAudio {
			lines[idx] = classify("dtparam=audio=on")
		} else {
			lines[idx] = classify(commented(lines[idx].text))
		}
	} else if wantAudio {
		at := lastHWFlagIndex(lines) + 1
		if at == 0 {
			at = len(lines)
		}
		lines = insertAt(lines, at, classify("dtparam=audio=on"))
	}

	// The overlay directive is always the last line so the active DAC is
	// greppable at the tail of the file.
	if overlay != "" {
		for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1].text) == "" {
			lines = lines[:len(lines)-1]
		}
		lines = append(lines, classify("dtoverlay="+overlay))
	}

	// The firmware treats a missing audio dtparam differently from an
	// explicit off on the HDMI path, so drop the lines entirely there.
	if opt.Key == hdmiKey && !wantAudio {
		kept = lines[:0]
		for _, l := range lines {
			if l.kind == kindAudioFlag {
				continue
			}
			kept = append(kept, l)
		}
		lines = kept
	}

	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.text
	}
	return strings.Join(parts, "\n")
}

// findHWFlag returns the index of the first line carrying the named hardware
// flag, commented or not, or -1.
func findHWFlag(lines []line, name string) int {
	for i, l := range lines {
		if l.kind == kindHWFlag && l.flag == name {
			return i
		}
	}
	return -1
}

func findAudioFlag(lines []line) int {
	for i, l := range lines {
		if l.kind == kindAudioFlag {
			return i
		}
	}
	return -1
}

// hwInsertPoint is the position before the first enabled hardware flag line,
// or end-of-file when there is none.
func hwInsertPoint(lines []line) int {
	for i, l := range lines {
		if l.kind == kindHWFlag && l.enabled {
			return i
		}
	}
	return len(lines)
}

func lastHWFlagIndex(lines []line) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].kind == kindHWFlag {
			return i
		}
	}
	return -1
}

func insertAt(lines []line, i int, l line) []line {
	lines = append(lines, line{})
	copy(lines[i+1:], lines[i:])
	lines[i] = l
	return lines
}
