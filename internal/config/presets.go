package config

import (
	"sort"

	"github.com/san-kum/tbphase/internal/models"
)

type Preset struct {
	Description string
	Params      models.Params
}

var Presets = map[string]Preset{
	"default": {
		Description: "coexistence: both populations settle at the interior point",
		Params:      models.Params{BetaB: 1.0, BetaI: 1.0, EtaB: 1.5, EtaI: 1.5},
	},
	"bistable": {
		Description: "weak self-limiting: the winner depends on the start",
		Params:      models.Params{BetaB: 5.0, BetaI: 5.0, EtaB: 0.5, EtaI: 0.5},
	},
	"tb-dominant": {
		Description: "immune response collapses, TB reaches carrying capacity",
		Params:      models.Params{BetaB: 1.0, BetaI: 1.0, EtaB: 1.5, EtaI: 0.6},
	},
	"immune-dominant": {
		Description: "immune response clears the infection",
		Params:      models.Params{BetaB: 1.0, BetaI: 1.0, EtaB: 0.6, EtaI: 1.5},
	},
	"fast-immune": {
		Description: "coexistence with a fast immune response",
		Params:      models.Params{BetaB: 0.5, BetaI: 4.0, EtaB: 1.5, EtaI: 1.5},
	},
}

// GetPreset returns the default config with the named preset's parameters,
// or nil when no such preset exists.
func GetPreset(name string) *Config {
	preset, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Params = preset.Params
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
