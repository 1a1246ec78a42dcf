package cli

func regCommands() {
	//Wallet
	walletCmd.AddCommand(wallet_newCmd)
	walletCmd.AddCommand(wallet_listCmd)
	walletCmd.AddCommand(wallet_signCmd)

	//Claim
	claimCmd.AddCommand(claim_requestCmd)
	claimCmd.AddCommand(claim_submitCmd)
	claimCmd.AddCommand(claim_starCmd)

	//Chain
	chainCmd.AddCommand(chain_blockCmd)
	chainCmd.AddCommand(chain_starsCmd)
	chainCmd.AddCommand(chain_validateCmd)

	//Root
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(chainCmd)
}
