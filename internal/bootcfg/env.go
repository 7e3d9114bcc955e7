package bootcfg

import (
	"os"
	"strings"
)

// Environment variables recognized by OverridesFromEnv.
const (
	EnvI2CArm       = "SPOTIPI_I2C_ARM"
	EnvI2S          = "SPOTIPI_I2S"
	EnvSPI          = "SPOTIPI_SPI"
	EnvOnboardAudio = "SPOTIPI_ONBOARD_AUDIO"
	EnvOverlay      = "SPOTIPI_DTOVERLAY"
)

// OverridesFromEnv reads the override variables from the process environment.
// The patcher itself never touches the environment; the daemon resolves
// overrides once at startup and passes them in explicitly.
func OverridesFromEnv() Overrides {
	return Overrides{
		I2CArm:       parseBoolToken(os.Getenv(EnvI2CArm)),
		I2S:          parseBoolToken(os.Getenv(EnvI2S)),
		SPI:          parseBoolToken(os.Getenv(EnvSPI)),
		OnboardAudio: parseBoolToken(os.Getenv(EnvOnboardAudio)),
		OverlayName:  strings.TrimSpace(os.Getenv(EnvOverlay)),
	}
}

// parseBoolToken accepts a small fixed vocabulary of truthy and falsy tokens.
// Anything else, including the empty string, means "unset".
func parseBoolToken(s string) *bool {
	v := false
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		v = true
	case "0", "false", "no", "off":
	default:
		return nil
	}
	return &v
}
