package cli

func regCommands() {
	//Chain
	chainCmd.AddCommand(chain_verifyCmd)
	chainCmd.AddCommand(chain_showCmd)

	//Wallet
	walletCmd.AddCommand(wallet_initCmd)
	walletCmd.AddCommand(wallet_addCmd)

	//Root
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(walletCmd)
}
