package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fattoken/fat0"
	"fattoken/fat1"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Reconstruct a FAT-0 or FAT-1 transaction and check its signatures",
	Run: func(cmd *cobra.Command, args []string) {
		chainID, _ := cmd.Flags().GetString("chain-id")
		extIDsPath, _ := cmd.Flags().GetString("ext-ids")
		contentPath, _ := cmd.Flags().GetString("content")
		kind, _ := cmd.Flags().GetString("kind")

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

		var valid bool
		switch kind {
		case "fat0":
			tx, err := fat0.ParseTransaction(chainID, extIDs, content)
			if err != nil {
				fmt.Printf("parse error: %v\n", err)
				os.Exit(1)
			}
			valid = tx.ValidateSignatures()
		case "fat1":
			tx, err := fat1.ParseTransaction(chainID, extIDs, content)
			if err != nil {
				fmt.Printf("parse error: %v\n", err)
				os.Exit(1)
			}
			valid = tx.ValidateSignatures()
		default:
			fmt.Printf("unknown --kind %q, expected fat0 or fat1\n", kind)
			os.Exit(1)
		}

		if valid {
			fmt.Println("valid")
			return
		}
		fmt.Println("invalid: signature check failed")
		os.Exit(1)
	},
}

func init() {
	validateCmd.Flags().String("chain-id", "", "token chain ID, 64 hex characters")
	validateCmd.Flags().String("ext-ids", "", "path to a JSON array of hex-encoded ext-ids")
	validateCmd.Flags().String("content", "", "path to the raw content bytes that were signed")
	validateCmd.Flags().String("kind", "fat0", "fat0 or fat1")
	validateCmd.MarkFlagRequired("chain-id")
	validateCmd.MarkFlagRequired("ext-ids")
	validateCmd.MarkFlagRequired("content")
}
