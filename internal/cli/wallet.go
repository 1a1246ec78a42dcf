package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tcfw/starregistry/internal/utils/logging"
	"github.com/tcfw/starregistry/internal/wallet"
	"github.com/tcfw/starregistry/pkg/cryptography"
)

var (
	walletCmd = &cobra.Command{
		Use:   "wallet",
		Short: "Wallet key commands",
	}

	wallet_newCmd = &cobra.Command{
		Use:   "new",
		Short: "Generate a new key and print its address",
		Run:   runWalletNew,
	}

	wallet_listCmd = &cobra.Command{
		Use:   "list",
		Short: "List wallet addresses",
		Run:   runWalletList,
	}

	wallet_signCmd = &cobra.Command{
		Use:   "sign <address> <message>",
		Short: "Sign a message with the key of address",
		Args:  cobra.ExactArgs(2),
		Run:   runWalletSign,
	}
)

func init() {
	wallet_newCmd.Flags().Bool("testnet", false, "use the testnet address version")
}

func openWallet() (*wallet.FileStore, error) {
	return wallet.NewFileStore(cfg.Wallet().Path)
}

func runWalletNew(cmd *cobra.Command, args []string) {
	w, err := openWallet()
	if err != nil {
		logging.WithError(err).Error("opening wallet")
		return
	}

	net := cryptography.MainNet
	if testnet, _ := cmd.Flags().GetBool("testnet"); testnet {
		net = cryptography.TestNet
	}

	pk, err := cryptography.NewEcdsaSecp256k1PrivateKey()
	if err != nil {
		logging.WithError(err).Error("generating key")
		return
	}

	addr, err := w.Add(pk, net)
	if err != nil {
		logging.WithError(err).Error("storing key")
		return
	}

	fmt.Println(addr)
}

func runWalletList(cmd *cobra.Command, args []string) {
	w, err := openWallet()
	if err != nil {
		logging.WithError(err).Error("opening wallet")
		return
	}

	for _, a := range w.List() {
		fmt.Println(a)
	}
}

func runWalletSign(cmd *cobra.Command, args []string) {
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

	sig, err := pk.SignMessage(args[1])
	if err != nil {
		logging.WithError(err).Error("signing")
		return
	}

	fmt.Println(sig)
}
