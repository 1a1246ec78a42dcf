package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/starregistry/internal/config"
)

var (
	rootCmd = &cobra.Command{
		Use:               "starregistry",
		Short:             "star ownership registry on an in-memory chain",
		PersistentPreRunE: loadConfig,
		SilenceUsage:      true,
	}

	cfg *config.Config
)

func Execute() error {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase verbosity")
	viper.BindPFlag(config.Cfg_verbose, rootCmd.PersistentFlags().Lookup("verbose"))

	regCommands()

	return rootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.GetConfig()
	if err != nil {
		return err
	}

	cfg = c
	return nil
}
