package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dhcpopt",
	Short: "DHCP option codec and probe.",
	Long: `Dhcpopt encodes and decodes DHCPv4 options (RFC 2132).  It can also probe a network
with DISCOVERs carrying chosen options and report what the servers answer with.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}
		return setupLogging(level)
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error.")
}

func setupLogging(level string) error {
	l, err := log.ParseLevel(level)
	if err != nil {
		return err
	}

	log.SetLevel(l)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return nil
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
