// chatbox is a terminal chat client and the stateless backend it talks to.
//
// Usage:
//
//	chatbox                          Interactive chat against CHATBOX_URL
//	chatbox chat --url http://host   Interactive chat against another backend
//	chatbox chat -m "hello"          Send one message, print the reply, exit
//	echo hello | chatbox chat        Same, reading the message from stdin
//	chatbox serve                    Run the POST /chat backend
//
// Both commands read a .env file from the working directory first; variables
// already set in the environment win.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfateev/chatbox/internal/config"
	"github.com/mfateev/chatbox/internal/version"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "chatbox",
		Short:         "Terminal chat client with a bounded conversation window",
		Version:       version.GitCommit,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(envFiles...)
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	// A bare "chatbox" behaves like "chatbox chat".
	var rootChat chatOptions
	addChatFlags(root, &rootChat)
	root.Args = cobra.NoArgs
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, &rootChat)
	}

	root.AddCommand(newChatCmd(), newServeCmd(), newKeysCmd())
	return root
}
