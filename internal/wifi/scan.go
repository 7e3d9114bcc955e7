package wifi

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Vincent1Vincent2/spotipi-go/internal/models"
)

const scanTimeout = 15 * time.Second

// Scan lists nearby WiFi networks, strongest first. It tries iwlist and
// falls back to nmcli; a machine with neither simply reports no networks.
func Scan(ctx context.Context) ([]models.WifiNetwork, error) {
	if out, err := runCmd(ctx, scanTimeout, "iwlist", "wlan0", "scan"); err == nil {
		if networks := parseIwlist(string(out)); len(networks) > 0 {
			return networks, nil
		}
	}

	out, err := runCmd(ctx, scanTimeout, "nmcli", "-t", "-f", "SSID,SIGNAL,SECURITY", "device", "wifi", "list")
	if err != nil {
		return []models.WifiNetwork{}, nil
	}
	return parseNmcli(string(out)), nil
}

var (
	essidRe   = regexp.MustCompile(`ESSID:"?([^"]+)"?`)
	qualityRe = regexp.MustCompile(`Quality=(\d+)/(\d+)`)
	levelRe   = regexp.MustCompile(`Signal level=(-?\d+)`)
)

// parseIwlist extracts networks from `iwlist wlan0 scan` output. Quality and
// encryption precede the ESSID within each cell, so state accumulates until
// an ESSID line flushes it.
func parseIwlist(output string) []models.WifiNetwork {
	var networks []models.WifiNetwork
	seen := make(map[string]bool)

	signal := 0
	encrypted := false
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "Cell "):
			signal, encrypted = 0, false
		case strings.Contains(line, "Quality=") || strings.Contains(line, "Signal level="):
			if m := qualityRe.FindStringSubmatch(line); m != nil {
				num, _ := strconv.Atoi(m[1])
				den, _ := strconv.Atoi(m[2])
				if den > 0 {
					signal = num * 100 / den
				}
			} else if m := levelRe.FindStringSubmatch(line); m != nil {
				// dBm to a rough percentage
				level, _ := strconv.Atoi(m[1])
				signal = clampPercent((level + 100) * 2)
			}
		case strings.Contains(line, "Encryption key:"):
			encrypted = strings.Contains(strings.ToLower(line), "on")
		case strings.Contains(line, "ESSID:"):
			if m := essidRe.FindStringSubmatch(line); m != nil {
				ssid := m[1]
				if ssid != "" && ssid != `\x00` && !seen[ssid] {
					seen[ssid] = true
					networks = append(networks, models.WifiNetwork{SSID: ssid, Signal: signal, Encrypted: encrypted})
				}
			}
		}
	}

	sortBySignal(networks)
	return networks
}

// parseNmcli extracts networks from nmcli terse output (SSID:SIGNAL:SECURITY).
func parseNmcli(output string) []models.WifiNetwork {
	var networks []models.WifiNetwork
	seen := make(map[string]bool)

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		parts := strings.Split(line, ":")
		if len(parts) < 2 {
			continue
		}
		ssid := strings.TrimSpace(parts[0])
		if ssid == "" || ssid == "--" || seen[ssid] {
			continue
		}
		seen[ssid] = true
		signal, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
		encrypted := len(parts) > 2 && strings.TrimSpace(parts[2]) != ""
		networks = append(networks, models.WifiNetwork{SSID: ssid, Signal: signal, Encrypted: encrypted})
	}

	sortBySignal(networks)
	return networks
}

func sortBySignal(networks []models.WifiNetwork) {
	sort.SliceStable(networks, func(i, j int) bool {
		return networks[i].Signal > networks[j].Signal
	})
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
