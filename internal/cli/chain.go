package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/tcfw/starregistry/internal/api"
	"github.com/tcfw/starregistry/internal/utils/logging"
	"github.com/tcfw/starregistry/pkg/ledger"
)

var (
	chainCmd = &cobra.Command{
		Use:   "chain",
		Short: "Chain inspection commands",
	}

	chain_blockCmd = &cobra.Command{
		Use:   "block",
		Short: "Fetch a block by height or hash",
		Run:   runChainBlock,
	}

	chain_starsCmd = &cobra.Command{
		Use:   "stars <address>",
		Short: "List stars owned by address",
		Args:  cobra.ExactArgs(1),
		Run:   runChainStars,
	}

	chain_validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate the whole chain",
		Run:   runChainValidate,
	}
)

func init() {
	chain_blockCmd.Flags().Uint64("height", 0, "block height")
	chain_blockCmd.Flags().String("hash", "", "block hash, takes precedence over height")
}

func runChainBlock(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	api, err := api.NewClient()
	if err != nil {
		logging.WithError(err).Error("constructing client")
		return
	}

	var b *ledger.Block
	if hash, _ := cmd.Flags().GetString("hash"); hash != "" {
		b, err = api.BlockByHash(ctx, ledger.Hash(hash))
	} else {
		height, _ := cmd.Flags().GetUint64("height")
		b, err = api.BlockByHeight(ctx, height)
	}
	if err != nil {
		logging.WithError(err).Error("fetching block")
		return
	}

	p, err := b.DecodePayload()
	if err != nil {
		logging.WithError(err).Warn("block body is not decodable")
		printJSON(b)
		return
	}

	printJSON(struct {
		*ledger.Block
		Payload *ledger.Payload `json:"payload"`
	}{b, p})
}

func runChainStars(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	api, err := api.NewClient()
	if err != nil {
		logging.WithError(err).Error("constructing client")
		return
	}

	stars, err := api.StarsByAddress(ctx, args[0])
	if err != nil {
		logging.WithError(err).Error("fetching stars")
		return
	}

	printJSON(stars)
}

func runChainValidate(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api, err := api.NewClient()
	if err != nil {
		logging.WithError(err).Error("constructing client")
		return
	}

	res, err := api.ValidateChain(ctx)
	if err != nil {
		logging.WithError(err).Error("validating chain")
		return
	}

	printJSON(res)
}
