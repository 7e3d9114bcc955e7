package system_test

import (
	"testing"

	"github.com/Vincent1Vincent2/spotipi-go/internal/system"
)

func TestHostnameNeverEmpty(t *testing.T) {
	svc := system.New("test", nil)
	if svc.Hostname() == "" {
		t.Error("Hostname() returned empty string")
	}
}

func TestLocalIPNeverEmpty(t *testing.T) {
	svc := system.New("test", nil)
	ip := svc.LocalIP()
	if ip == "" {
		t.Error("LocalIP() returned empty string")
	}
}

func TestVersion(t *testing.T) {
	svc := system.New("1.2.3", nil)
	if got := svc.Version(); got != "1.2.3" {
		t.Errorf("Version() = %q", got)
	}
}
