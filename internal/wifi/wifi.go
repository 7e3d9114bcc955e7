// Package wifi writes WPA supplicant credentials and scans for nearby
// networks during first-boot setup.
package wifi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Vincent1Vincent2/spotipi-go/internal/bootcfg"
)

// DefaultPath is the WPA supplicant configuration on Raspberry Pi OS.
const DefaultPath = "/etc/wpa_supplicant/wpa_supplicant.conf"

const supplicantHeader = "ctrl_interface=DIR=/var/run/wpa_supplicant GROUP=netdev\n" +
	"update_config=1\n" +
	"country=US\n"

const cmdTimeout = 5 * time.Second

// runCmd is a variable so tests can stub subprocess invocations.
var runCmd = func(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return exec.CommandContext(ctx, name, args...).Output()
}

// Configurator appends network blocks to the WPA supplicant file, keeping a
// one-time backup of the pristine file like the boot config patcher does.
type Configurator struct {
	fs         bootcfg.FileAccess
	path       string
	backupPath string
}

// NewConfigurator creates a Configurator for the given supplicant path.
func NewConfigurator(fs bootcfg.FileAccess, path string) *Configurator {
	return &Configurator{fs: fs, path: path, backupPath: path + bootcfg.BackupSuffix}
}

// Configure writes the given network credentials. Mirrors the boot config
// patcher's boundary: every outcome is a (success, message) pair, and a
// missing supplicant directory means a development machine, not an error.
func (c *Configurator) Configure(ctx context.Context, ssid, password string) (bool, string) {
	ssid = strings.TrimSpace(ssid)
	password = strings.TrimSpace(password)
	if ssid == "" {
		return false, "SSID cannot be empty"
	}

	if !c.fs.Exists(filepath.Dir(c.path)) {
		return true, fmt.Sprintf("WiFi network %q selected (%s not present, skipping)", ssid, filepath.Dir(c.path))
	}

	existing := ""
	if c.fs.Exists(c.path) {
		data, err := c.fs.ReadFile(ctx, c.path)
		if err != nil {
			if errors.Is(err, os.ErrPermission) {
				return false, fmt.Sprintf("permission denied reading %s: %v", c.path, err)
			}
			return false, fmt.Sprintf("error configuring WiFi: %v", err)
		}
		existing = string(data)

		if !c.fs.Exists(c.backupPath) {
			if err := c.fs.WriteFile(ctx, c.backupPath, data); err != nil {
				if errors.Is(err, os.ErrPermission) {
					return false, fmt.Sprintf("permission denied backing up %s: %v", c.path, err)
				}
				return false, fmt.Sprintf("error configuring WiFi: %v", err)
			}
		}
	}

	block := fmt.Sprintf("\nnetwork={\n    ssid=%s\n    psk=\"%s\"\n}\n", escapeSSID(ssid), escapeValue(password))

	var content string
	if existing != "" && strings.Contains(existing, "ctrl_interface") {
		content = strings.TrimRight(existing, "\n") + "\n" + block
	} else {
		content = supplicantHeader + block
	}

	if err := c.fs.WriteFile(ctx, c.path, []byte(content)); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return false, fmt.Sprintf("permission denied writing %s: %v", c.path, err)
		}
		return false, fmt.Sprintf("error configuring WiFi: %v", err)
	}
	// Credentials file; best-effort tighten. A root-owned file keeps the
	// permissions the privileged write gave it.
	_ = os.Chmod(c.path, 0600)

	// Ask the running supplicant to pick up the new block. Failure is fine,
	// the config applies on the next reboot anyway.
	if _, err := runCmd(ctx, cmdTimeout, "wpa_cli", "-i", "wlan0", "reconfigure"); err != nil {
		return true, fmt.Sprintf("WiFi configured: %s (supplicant reload deferred to next reboot)", ssid)
	}
	return true, fmt.Sprintf("WiFi configured: %s", ssid)
}

// escapeSSID quotes an SSID when it contains characters wpa_supplicant
// would misread in bare form.
func escapeSSID(ssid string) string {
	if strings.ContainsAny(ssid, " \\\"#") {
		return `"` + escapeValue(ssid) + `"`
	}
	return ssid
}

func escapeValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
