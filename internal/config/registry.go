package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Registry struct {
	ValidityWindow time.Duration
	BloomEstimate  uint
	DecodeWorkers  int
}

const (
	Cfg_registry_validityWindow = "registry.validityWindow"
	Cfg_registry_bloomEstimate  = "registry.bloomEstimate"
	Cfg_registry_decodeWorkers  = "registry.decodeWorkers"
)

var (
	registryDefaults = map[string]interface{}{
		Cfg_registry_validityWindow: "300s",
		Cfg_registry_bloomEstimate:  10000,
		Cfg_registry_decodeWorkers:  8,
	}
)

func init() {
	for k, v := range registryDefaults {
		viper.SetDefault(k, v)
	}
}

func buildRegistryConfig() (*Registry, error) {
	c := &Registry{}

	c.ValidityWindow = viper.GetDuration(Cfg_registry_validityWindow)
	if c.ValidityWindow < time.Second {
		return nil, errors.Errorf("%s must be at least 1s", Cfg_registry_validityWindow)
	}

	c.BloomEstimate = viper.GetUint(Cfg_registry_bloomEstimate)
	if c.BloomEstimate == 0 {
		return nil, errors.Errorf("%s must be positive", Cfg_registry_bloomEstimate)
	}

	c.DecodeWorkers = viper.GetInt(Cfg_registry_decodeWorkers)
	if c.DecodeWorkers < 1 {
		return nil, errors.Errorf("%s must be positive", Cfg_registry_decodeWorkers)
	}

	return c, nil
}
