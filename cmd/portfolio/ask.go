package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/portfolio/ai/responder"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Answer a message with the chat rules, without starting the server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := responder.LoadTable(viper.GetString("chat-rules"))
		if err != nil {
			return err
		}
		reply := responder.New(table).Reply(strings.Join(args, " "))
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] ", reply.Rule)
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
		return nil
	},
}

func init() {
	askCmd.Flags().BoolP("verbose", "v", false, "print the matched rule name")
}
