// Package system exposes appliance-level facts and actions: addressing,
// hardware identification, and reboot.
package system

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"golang.org/x/sys/unix"
	"periph.io/x/host/v3/distro"
)

// Service gathers system information for the API.
type Service struct {
	version string
	logger  *slog.Logger
}

// New creates a system service reporting the given build version.
func New(version string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{version: version, logger: logger}
}

// Version returns the build version string.
func (s *Service) Version() string { return s.version }

// Hostname returns the appliance hostname, or "spotipi" when unknown.
func (s *Service) Hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "spotipi"
	}
	return name
}

// LocalIP returns the interface address used for outbound traffic. The UDP
// dial never sends a packet; it only asks the kernel which source address
// routing would pick.
func (s *Service) LocalIP() string {
	conn, err := net.Dial("udp", "10.254.254.254:1")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}
	return addr.IP.String()
}

// PiModel returns the board model from the device tree, or "" when not
// running on a Pi.
func (s *Service) PiModel() string {
	model := distro.DTModel()
	if model == "" || model == "<unknown>" {
		return ""
	}
	return model
}

// Kernel returns the running kernel release, or "" when unavailable.
func (s *Service) Kernel() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uts.Release[:])
}

// Reboot restarts the appliance. It asks logind over the system bus first
// and falls back to shelling out, since the spotipi user may only have
// sudo rules rather than a logind session.
func (s *Service) Reboot(ctx context.Context) error {
	if err := s.rebootViaLogind(); err == nil {
		return nil
	} else {
		s.logger.Warn("logind reboot failed, falling back to command", "err", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	for _, args := range [][]string{
		{"systemctl", "reboot"},
		{"sudo", "-n", "reboot"},
	} {
		if err := exec.CommandContext(ctx, args[0], args[1:]...).Run(); err == nil {
			return nil
		}
	}
	return fmt.Errorf("reboot: no available mechanism succeeded")
}

func (s *Service) rebootViaLogind() error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.login1", "/org/freedesktop/login1")
	call := obj.Call("org.freedesktop.login1.Manager.Reboot", 0, false)
	if call.Err != nil {
		return fmt.Errorf("logind reboot: %w", call.Err)
	}
	return nil
}

// IsPi reports whether the process appears to run on Raspberry Pi hardware.
func (s *Service) IsPi() bool {
	return strings.Contains(strings.ToLower(s.PiModel()), "raspberry")
}
