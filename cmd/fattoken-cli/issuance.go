package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fattoken/issuance"
)

var issuanceCmd = &cobra.Command{
	Use:   "issuance",
	Short: "Inspect issuance entries",
}

var issuanceValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Reconstruct an issuance entry and check its signature",
	Run: func(cmd *cobra.Command, args []string) {
		chainID, _ := cmd.Flags().GetString("chain-id")
		extIDsPath, _ := cmd.Flags().GetString("ext-ids")
		contentPath, _ := cmd.Flags().GetString("content")

		extIDs, err := readExtIDs(extIDsPath)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		content, err := readContent(contentPath)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		iss, err := issuance.ParseEntry(chainID, extIDs, content)
		if err != nil {
			fmt.Printf("parse error: %v\n", err)
			os.Exit(1)
		}
		if !iss.ValidateSignature() {
			fmt.Println("invalid: signature check failed")
			os.Exit(1)
		}
		fmt.Printf("valid: type=%s token_id=%s supply=%d\n", iss.GetType(), iss.GetTokenID(), iss.GetSupply())
	},
}

func init() {
	issuanceValidateCmd.Flags().String("chain-id", "", "token chain ID, 64 hex characters")
	issuanceValidateCmd.Flags().String("ext-ids", "", "path to a JSON array of hex-encoded ext-ids")
	issuanceValidateCmd.Flags().String("content", "", "path to the raw content bytes that were signed")
	issuanceValidateCmd.MarkFlagRequired("chain-id")
	issuanceValidateCmd.MarkFlagRequired("ext-ids")
	issuanceValidateCmd.MarkFlagRequired("content")
	issuanceCmd.AddCommand(issuanceValidateCmd)
}
