package config

import (
	"github.com/spf13/viper"
)

type API struct {
	ListenAddr string
	DaemonAddr string
}

const (
	Cfg_api_listenAddr = "api.listenAddr"
	Cfg_api_daemonAddr = "api.daemonAddr"
)

var (
	apiDefaults = map[string]interface{}{
		Cfg_api_listenAddr: ":8000",
		Cfg_api_daemonAddr: "http://127.0.0.1:8000",
	}
)

func init() {
	for k, v := range apiDefaults {
		viper.SetDefault(k, v)
	}
}

func buildAPIConfig() (*API, error) {
	c := &API{}

	c.ListenAddr = viper.GetString(Cfg_api_listenAddr)
	c.DaemonAddr = viper.GetString(Cfg_api_daemonAddr)

	return c, nil
}
