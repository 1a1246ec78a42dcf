package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Wallet struct {
	Path string
}

const (
	Cfg_wallet_path = "wallet.path"
)

func buildWalletConfig() (*Wallet, error) {
	c := &Wallet{}

	c.Path = viper.GetString(Cfg_wallet_path)
	if c.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "locating home dir")
		}
		c.Path = filepath.Join(home, ".starregistry", "wallet.yaml")
	}

	return c, nil
}
