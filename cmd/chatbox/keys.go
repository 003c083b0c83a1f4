package main

import (
	"github.com/spf13/cobra"

	"github.com/mfateev/chatbox/internal/cli"
)

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "keys",
		Short:  "Echo key events and the chat binding each one triggers",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunKeyDebug()
		},
	}
}
