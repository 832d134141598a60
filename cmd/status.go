package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zdunecki/lsdomain/pkg/certs"
	"github.com/zdunecki/lsdomain/pkg/cli"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the certificate, DNS records and service mapping of a domain",
	Long:  `Read the current state of everything an attach run touches. Nothing is changed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}

		printer := cli.NewPrinter(cmd.OutOrStdout(), jsonOutput)
		st, err := env.attacher(printer).Inspect(cmd.Context(), targetOptions(env.cfg))
		if err != nil {
			return err
		}
		return printer.Status(st)
	},
}

var certNameCmd = &cobra.Command{
	Use:   "cert-name [domain]",
	Short: "Print the certificate name derived from a domain",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), certs.NameFromDomain(args[0]))
	},
}

func init() {
	addTargetFlags(statusCmd.Flags())
	statusCmd.MarkFlagRequired("container-name")
	statusCmd.MarkFlagRequired("domain-name")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(certNameCmd)
}
