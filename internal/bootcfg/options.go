// Package bootcfg rewrites the Raspberry Pi boot configuration file
// (/boot/config.txt) to select an audio output device. It reconciles
// device-tree overlay and dtparam directives idempotently, preserves every
// unrelated line, and keeps a one-time backup of the pristine file.
package bootcfg

// Option is one selectable audio output. Overlay is empty for outputs that
// use the board's onboard audio path instead of a device-tree overlay.
type Option struct {
	Key         string
	Name        string
	Overlay     string
	Description string
}

// options is the fixed table of supported audio outputs, in display order.
var options = []Option{
	{"analog", "3.5mm Analog Jack", "", "Built-in 3.5mm audio jack"},
	{"hifiberry-dac", "HiFiBerry DAC+", "hifiberry-dac", "HiFiBerry DAC+ basic model"},
	{"hifiberry-dacplus", "HiFiBerry DAC+ Light", "hifiberry-dacplus", "HiFiBerry DAC+ Light"},
	{"hifiberry-dacplusadc", "HiFiBerry DAC+ Pro", "hifiberry-dacplusadc", "HiFiBerry DAC+ Pro (with ADC)"},
	{"iqaudio-dacplus", "IQaudio DAC+", "iqaudio-dacplus", "IQaudio DAC+"},
	{"justboom-dac", "JustBoom DAC", "justboom-dac", "JustBoom DAC"},
	{"allo-boss-dac", "Allo Boss DAC", "allo-boss-dac-pcm512x-audio", "Allo Boss DAC"},
	{"allo-boss2-dac", "Allo Boss2 DAC", "allo-boss2-dac-pcm512x-audio", "Allo Boss2 DAC"},
	{"hdmi", "HDMI Audio", "", "HDMI audio output (disable analog)"},
}

// Options returns the audio output table in display order.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// LookupOption finds an option by key.
func LookupOption(key string) (Option, bool) {
	for _, o := range options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}
