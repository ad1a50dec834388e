package main

import (
	"github.com/spf13/cobra"

	"clonectl/internal/clone"
)

// sendCmd broadcasts a message
var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Broadcast a message to every clone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.SendMessage(cmd.Context(), args[0]); err != nil {
			return reportRemote(cmd, err)
		}
		return confirm(cmd, "message sent")
	},
}

// readCmd reads the message bag
var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read all messages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := client.ReadMessages(cmd.Context())
		return renderCollection(cmd, coll, err)
	},
}

// rememberCmd stores a shared fact
var rememberCmd = &cobra.Command{
	Use:   "remember [fact]",
	Short: "Store a shared fact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.Remember(cmd.Context(), args[0]); err != nil {
			return reportRemote(cmd, err)
		}
		return confirm(cmd, "fact stored")
	},
}

// memoriesCmd reads the shared facts
var memoriesCmd = &cobra.Command{
	Use:   "memories",
	Short: "Read shared facts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := client.Memories(cmd.Context())
		return renderCollection(cmd, coll, err)
	},
}

// submitResultCmd reports a task result
var submitResultCmd = &cobra.Command{
	Use:   "submit-result [result]",
	Short: "Report a task result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.SubmitResult(cmd.Context(), args[0]); err != nil {
			return reportRemote(cmd, err)
		}
		return confirm(cmd, "result stored")
	},
}

// resultsCmd reads every submitted result
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Retrieve stored task results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := client.Results(cmd.Context())
		return renderCollection(cmd, coll, err)
	},
}

func renderCollection(cmd *cobra.Command, coll clone.Collection, err error) error {
	if err != nil {
		return reportRemote(cmd, err)
	}
	text := coll.String()
	if cfg.Output.Pretty {
		text = coll.Pretty()
	}
	return printLine(cmd, trimNewline(text))
}
