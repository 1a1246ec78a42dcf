package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/starregistry/internal/api"
	"github.com/tcfw/starregistry/internal/config"
	"github.com/tcfw/starregistry/internal/node"
	"github.com/tcfw/starregistry/internal/utils/logging"
)

var (
	daemonCmd = &cobra.Command{
		Use:   "daemon",
		RunE:  runDaemon,
		Short: "run the registry and its HTTP API",
	}
)

func init() {
	daemonCmd.Flags().StringP("listen", "l", ":8000", "api listen address")
	viper.BindPFlag(config.Cfg_api_listenAddr, daemonCmd.Flags().Lookup("listen"))
}

func runDaemon(cmd *cobra.Command, args []string) error {
	n, err := node.NewNode(
		node.WithDefaultOptions(),
		node.WithConfig(cfg),
	)
	if err != nil {
		return errors.Wrap(err, "initing node")
	}

	addr, err := net.ResolveTCPAddr("tcp", cfg.API().ListenAddr)
	if err != nil {
		return errors.Wrap(err, "resolving listen address")
	}

	a, err := api.NewAPI(n)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)

	go func() {
		logging.WithField("addr", addr.String()).Info("starting API")
		if err := a.ListenAndServe(addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-waitExit():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := a.Shutdown(shutdownCtx); err != nil {
			logging.WithError(err).Error("shutting down API")
		}

		return n.Stop()
	}
}

func waitExit() <-chan os.Signal {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	return sigs
}
