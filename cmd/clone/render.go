package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clonectl/internal/logging"
	"clonectl/internal/transport"
)

func confirm(cmd *cobra.Command, msg string) error {
	return printLine(cmd, msg)
}

func printLine(cmd *cobra.Command, s string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), s)
	return err
}

func trimNewline(s string) string {
	return strings.TrimRight(s, "\r\n")
}

// reportRemote prints a failed remote operation as "error: <text>" on
// stdout. The process still exits 0 unless strict exit is enabled.
func reportRemote(cmd *cobra.Command, err error) error {
	msg := err.Error()
	log := logging.Get(logger, logging.CategoryCLI)

	var terr *transport.Error
	if errors.As(err, &terr) {
		msg = terr.Message()
		log.Debug("remote operation failed",
			zap.String("command", cmd.Name()),
			zap.Stringer("kind", terr.Kind),
			zap.Int("status", terr.StatusCode),
			zap.Error(err),
		)
	} else {
		log.Debug("operation failed", zap.String("command", cmd.Name()), zap.Error(err))
	}

	if perr := printLine(cmd, "error: "+trimNewline(msg)); perr != nil {
		return perr
	}

	if cfg != nil && cfg.Output.StrictExit {
		cmd.SilenceUsage = true
		return fmt.Errorf("%w: %s", errRemoteFailed, msg)
	}
	return nil
}
