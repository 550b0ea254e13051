package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/push"
)

var vapidCmd = &cobra.Command{
	Use:   "vapid",
	Short: "Generate a VAPID key pair for web push.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pub, priv, err := push.GenerateVAPIDKeys()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "DAILYMATE_PUSH__VAPID_PUBLIC_KEY=%s\n", pub)
		fmt.Fprintf(out, "DAILYMATE_PUSH__VAPID_PRIVATE_KEY=%s\n", priv)
		return nil
	},
}
