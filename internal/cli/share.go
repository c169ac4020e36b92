package cli

import (
	"fmt"

	"github.com/Joseda-hg/taskminder/internal/share"
	"github.com/spf13/cobra"
)

func shareCmd(flags *globalFlags) *cobra.Command {
	var recipient string
	var whatsapp bool

	cmd := &cobra.Command{
		Use:   "share <id>",
		Short: "Print a sharing message and links for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), flags, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			task, ok := a.store.Get(id)
			if !ok {
				return fmt.Errorf("task %d not found", id)
			}

			out := cmd.OutOrStdout()
			if whatsapp {
				fmt.Fprintln(out, share.ChatMessage(task))
				fmt.Fprintln(out)
				fmt.Fprintln(out, share.WhatsAppURL(task))
				return nil
			}

			fmt.Fprintln(out, share.Message(task))
			if recipient == "" {
				return nil
			}
			link, err := share.EmailURL(recipient, task)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, link)
			return nil
		},
	}
	cmd.Flags().StringVar(&recipient, "to", "", "email recipient for a compose link")
	cmd.Flags().BoolVar(&whatsapp, "whatsapp", false, "print a WhatsApp message and link instead")
	cmd.MarkFlagsMutuallyExclusive("to", "whatsapp")
	return cmd
}
