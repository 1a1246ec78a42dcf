package config

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	Cfg_verbose = "verbose"
)

var (
	defaults = map[string]interface{}{
		Cfg_verbose: false,
	}
)

func init() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

func GetConfig() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("starregistry")
	viper.AddConfigPath("/etc/starregistry/")
	viper.AddConfigPath("$HOME/.starregistry")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("STARREGISTRY")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error
			logrus.Debug("no config found")
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	if viper.GetBool(Cfg_verbose) {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.WithField("level", "debug").Debug("setting log level")
	}

	return build()
}

func build() (*Config, error) {
	var err error
	c := &Config{}

	c.registry, err = buildRegistryConfig()
	if err != nil {
		return nil, errors.Wrap(err, "registry config")
	}

	c.api, err = buildAPIConfig()
	if err != nil {
		return nil, errors.Wrap(err, "api config")
	}

	c.wallet, err = buildWalletConfig()
	if err != nil {
		return nil, errors.Wrap(err, "wallet config")
	}

	return c, nil
}

type Config struct {
	registry *Registry
	api      *API
	wallet   *Wallet
}

func (c *Config) Registry() *Registry {
	return c.registry
}

func (c *Config) API() *API {
	return c.api
}

func (c *Config) Wallet() *Wallet {
	return c.wallet
}
