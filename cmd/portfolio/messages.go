package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hrygo/portfolio/internal/util"
	"github.com/hrygo/portfolio/store"
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List recent contact form messages",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		instanceProfile, err := loadProfile()
		if err != nil {
			return err
		}
		storeInstance, err := openStore(cmd.Context(), instanceProfile)
		if err != nil {
			return err
		}
		defer storeInstance.Close()

		messages, err := storeInstance.ListContactMessages(cmd.Context(), &store.FindContactMessage{Limit: limit})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "REFERENCE\tRECEIVED\tFROM\tSUBJECT")
		for _, m := range messages {
			fmt.Fprintf(w, "%s\t%s\t%s <%s>\t%s\n",
				m.Reference,
				time.Unix(m.CreatedTs, 0).Format(time.DateTime),
				m.Name, m.Email,
				util.TruncateRunes(m.Subject, 60))
		}
		return w.Flush()
	},
}

func init() {
	messagesCmd.Flags().Int("limit", 20, "maximum number of messages to list")
}
