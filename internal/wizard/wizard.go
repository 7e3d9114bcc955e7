// Package wizard runs the first-boot setup flow: Spotify credentials, audio
// output selection, and optional WiFi provisioning in one pass.
package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Vincent1Vincent2/spotipi-go/internal/bootcfg"
	"github.com/Vincent1Vincent2/spotipi-go/internal/config"
	"github.com/Vincent1Vincent2/spotipi-go/internal/models"
)

// AudioPatcher applies an audio output selection to the boot configuration.
type AudioPatcher interface {
	ConfigureAudioOutput(ctx context.Context, optionKey string, ov bootcfg.Overrides) (bool, string)
}

// WifiConfigurator writes WiFi credentials for the appliance.
type WifiConfigurator interface {
	Configure(ctx context.Context, ssid, password string) (bool, string)
}

// Service validates wizard input and applies each setup step in order.
// Saving the credentials is the only fatal step; WiFi and boot config
// failures are reported back to the UI but leave the appliance configured.
type Service struct {
	store     config.Store
	patcher   AudioPatcher
	wifi      WifiConfigurator
	overrides bootcfg.Overrides
	envPath   string
	logger    *slog.Logger
}

// New creates a wizard service. envPath may be empty to skip updating the
// development .env file.
func New(store config.Store, patcher AudioPatcher, wifi WifiConfigurator, overrides bootcfg.Overrides, envPath string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		patcher:   patcher,
		wifi:      wifi,
		overrides: overrides,
		envPath:   envPath,
		logger:    logger,
	}
}

// AudioOptions lists the audio output choices for the setup UI.
func (s *Service) AudioOptions() []models.AudioOptionView {
	opts := bootcfg.Options()
	views := make([]models.AudioOptionView, 0, len(opts))
	for _, o := range opts {
		views = append(views, models.AudioOptionView{
			Value:       o.Key,
			Name:        o.Name,
			Description: o.Description,
		})
	}
	return views
}

// Run executes the wizard. The returned error covers validation and the
// credential save only; step-level failures land in the result.
func (s *Service) Run(ctx context.Context, req models.SetupRequest) (*models.SetupResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	result := &models.SetupResult{}

	if req.WifiSSID != "" && !req.SkipWifi {
		ok, msg := s.wifi.Configure(ctx, req.WifiSSID, req.WifiPassword)
		result.Steps = append(result.Steps, models.StepResult{Name: "wifi", OK: ok, Message: msg})
		if !ok {
			s.logger.Warn("wizard wifi step failed", "ssid", req.WifiSSID, "message", msg)
		}
	}

	ok, msg := s.patcher.ConfigureAudioOutput(ctx, req.AudioOutput, s.overrides)
	result.Steps = append(result.Steps, models.StepResult{Name: "audio", OK: ok, Message: msg})
	if !ok {
		s.logger.Warn("wizard audio step failed", "option", req.AudioOutput, "message", msg)
	}

	if s.envPath != "" {
		if err := config.UpdateEnvAudioOutput(s.envPath, req.AudioOutput); err != nil {
			result.Steps = append(result.Steps, models.StepResult{
				Name:    "env",
				OK:      false,
				Message: fmt.Sprintf("could not update %s: %v", s.envPath, err),
			})
			s.logger.Warn("wizard env step failed", "path", s.envPath, "error", err)
		}
	}

	// Credentials save comes last so the earlier steps run even when the
	// configuration file is not writable.
	cfg, err := s.store.Load()
	if err != nil {
		def := config.Default()
		cfg = &def
	}
	cfg.Spotify.ClientID = strings.TrimSpace(req.ClientID)
	cfg.Spotify.ClientSecret = strings.TrimSpace(req.ClientSecret)
	cfg.Spotify.RedirectURI = strings.TrimSpace(req.RedirectURI)
	cfg.Audio.Output = req.AudioOutput

	if err := s.store.Save(cfg); err != nil {
		return nil, models.ErrInternal(fmt.Sprintf("saving configuration: %v", err))
	}
	result.Steps = append(result.Steps, models.StepResult{Name: "credentials", OK: true, Message: "Spotify credentials saved"})
	result.Configured = true

	s.logger.Info("setup wizard completed", "audio_output", req.AudioOutput, "wifi", req.WifiSSID != "")
	return result, nil
}

func validate(req models.SetupRequest) error {
	if strings.TrimSpace(req.ClientID) == "" {
		return fieldError("client_id is required", "client_id")
	}
	if strings.TrimSpace(req.ClientSecret) == "" {
		return fieldError("client_secret is required", "client_secret")
	}
	uri := strings.TrimSpace(req.RedirectURI)
	if uri == "" {
		return fieldError("redirect_uri is required", "redirect_uri")
	}
	u, err := url.Parse(uri)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fieldError("redirect_uri must be an absolute http or https URL", "redirect_uri")
	}
	if _, ok := bootcfg.LookupOption(req.AudioOutput); !ok {
		return fieldError(fmt.Sprintf("unknown audio output %q", req.AudioOutput), "audio_output")
	}
	return nil
}

func fieldError(msg, field string) *models.AppError {
	e := models.ErrBadRequest(msg)
	e.Field = field
	return e
}
