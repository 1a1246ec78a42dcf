package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tcfw/starregistry/internal/api"
	"github.com/tcfw/starregistry/internal/utils/logging"
	"github.com/tcfw/starregistry/pkg/ledger"
	"github.com/tcfw/starregistry/pkg/registry"
)

var (
	claimCmd = &cobra.Command{
		Use:   "claim",
		Short: "Star claim commands",
	}

	claim_requestCmd = &cobra.Command{
		Use:   "request <address>",
		Short: "Request a challenge message for address",
		Args:  cobra.ExactArgs(1),
		Run:   runClaimRequest,
	}

	claim_submitCmd = &cobra.Command{
		Use:   "submit",
		Short: "Submit an already signed claim",
		Run:   runClaimSubmit,
	}

	claim_starCmd = &cobra.Command{
		Use:   "star <address>",
		Short: "Request, sign with the wallet key and submit a claim",
		Args:  cobra.ExactArgs(1),
		Run:   runClaimStar,
	}
)

func init() {
	for _, c := range []*cobra.Command{claim_submitCmd, claim_starCmd} {
		c.Flags().String("dec", "", "star declination")
		c.Flags().String("ra", "", "star right ascension")
		c.Flags().String("story", "", "star story")
	}

	claim_submitCmd.Flags().String("address", "", "claiming address")
	claim_submitCmd.Flags().String("message", "", "signed challenge message")
	claim_submitCmd.Flags().String("signature", "", "base64 message signature")
}

func starFromFlags(cmd *cobra.Command) ledger.Star {
	s := ledger.Star{}
	s.Dec, _ = cmd.Flags().GetString("dec")
	s.RA, _ = cmd.Flags().GetString("ra")
	s.Story, _ = cmd.Flags().GetString("story")
	return s
}

func printJSON(v interface{}) {
	s, _ := json.MarshalIndent(v, "", "  ")
	fmt.Printf("%s\n", s)
}

func runClaimRequest(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	api, err := api.NewClient()
	if err != nil {
		logging.WithError(err).Error("constructing client")
		return
	}

	msg, err := api.RequestValidation(ctx, args[0])
	if err != nil {
		logging.WithError(err).Error("requesting validation")
		return
	}

	fmt.Println(msg)
}

func runClaimSubmit(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	api, err := api.NewClient()
	if err != nil {
		logging.WithError(err).Error("constructing client")
		return
	}

	c := registry.Claim{Star: starFromFlags(cmd)}
	c.Address, _ = cmd.Flags().GetString("address")
	c.Message, _ = cmd.Flags().GetString("message")
	c.Signature, _ = cmd.Flags().GetString("signature")

	b, err := api.SubmitStar(ctx, c)
	if err != nil {
		logging.WithError(err).Error("submitting claim")
		return
	}

	printJSON(b)
}

func runClaimStar(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	w, err := openWallet()
	if err != nil {
		logging.WithError(err).Error("opening wallet")
		return
	}

	pk, err := w.Find(args[0])
	if err != nil {
		logging.WithError(err).WithField("address", args[0]).Error("finding key")
		return
	}

	api, err := api.NewClient()
	if err != nil {
		logging.WithError(err).Error("constructing client")
		return
	}

	msg, err := api.RequestValidation(ctx, args[0])
	if err != nil {
		logging.WithError(err).Error("requesting validation")
		return
	}

	sig, err := pk.SignMessage(msg)
	if err != nil {
		logging.WithError(err).Error("signing challenge")
		return
	}

	b, err := api.SubmitStar(ctx, registry.Claim{
		Address:   args[0],
		Message:   msg,
		Signature: sig,
		Star:      starFromFlags(cmd),
	})
	if err != nil {
		logging.WithError(err).Error("submitting claim")
		return
	}

	printJSON(b)
}
