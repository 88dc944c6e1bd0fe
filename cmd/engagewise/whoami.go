// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		user := currentUser()
		if user == nil {
			fmt.Println("Not signed in.")
			return nil
		}
		fmt.Printf("UID:   %s\n", user.UID)
		if user.Email != "" {
			fmt.Printf("Email: %s\n", user.Email)
		}
		if user.DisplayName != "" {
			fmt.Printf("Name:  %s\n", user.DisplayName)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
