package bootcfg

import (
	"regexp"
	"strings"
)

// Hardware interface flag names, in canonical insertion order.
const (
	flagI2CArm = "i2c_arm"
	flagI2S    = "i2s"
	flagSPI    = "spi"
)

var hwFlagOrder = []string{flagI2CArm, flagI2S, flagSPI}

// dacOverlayPrefixes are the overlay name families that belong to I2S DAC
// boards this package manages. Any matching dtoverlay line is purged before
// the newly selected overlay is placed, so a previous DAC never lingers.
var dacOverlayPrefixes = []string{"hifiberry-", "iqaudio-", "justboom-", "allo-"}

const dacOverlayExact = "i2s-mmap"

type lineKind int

const (
	kindOther lineKind = iota
	kindHWFlag
	kindAudioFlag
	kindOverlay
)

// line is a classified config line. The original text is kept verbatim so
// unrecognized content survives a rewrite untouched.
type line struct {
	text    string
	kind    lineKind
	flag    string // hardware flag name, kindHWFlag only
	enabled bool   // directive kinds: line is not comment-prefixed
	overlay string // overlay name, kindOverlay only
}

var (
	hwFlagRe  = regexp.MustCompile(`(?i)^\s*(#\s*)?dtparam\s*=\s*(i2c_arm|i2s|spi)\s*=\s*(\S+)\s*$`)
	audioRe   = regexp.MustCompile(`(?i)^\s*(#\s*)?dtparam\s*=\s*audio\s*=\s*(\S+)\s*$`)
	overlayRe = regexp.MustCompile(`(?i)^\s*(#\s*)?dtoverlay\s*=\s*(\S+)\s*$`)
)

// classify parses one line into its tagged variant. Classification happens
// exactly once per line per rewrite; the pipeline stages then operate on the
// typed sequence.
func classify(text string) line {
	if m := hwFlagRe.FindStringSubmatch(text); m != nil {
		return line{text: text, kind: kindHWFlag, flag: strings.ToLower(m[2]), enabled: m[1] == ""}
	}
	if m := audioRe.FindStringSubmatch(text); m != nil {
		return line{text: text, kind: kindAudioFlag, enabled: m[1] == ""}
	}
	if m := overlayRe.FindStringSubmatch(text); m != nil {
		return line{text: text, kind: kindOverlay, enabled: m[1] == "", overlay: m[2]}
	}
	return line{text: text, kind: kindOther}
}

func classifyAll(texts []string) []line {
	lines := make([]line, len(texts))
	for i, t := range texts {
		lines[i] = classify(t)
	}
	return lines
}

// isDACOverlay reports whether an overlay name belongs to a managed I2S DAC
// family.
func isDACOverlay(name string) bool {
	name = strings.ToLower(name)
	if name == dacOverlayExact {
		return true
	}
	for _, p := range dacOverlayPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// commented returns the line in disabled form, preserving the original text
// after the marker. Already-disabled lines pass through unchanged.
func commented(text string) string {
	if strings.HasPrefix(strings.TrimSpace(text), "#") {
		return text
	}
	return "#" + text
}
