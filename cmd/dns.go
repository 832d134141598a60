package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zdunecki/lsdomain/pkg/dns"
)

var nameserversCmd = &cobra.Command{
	Use:   "nameservers [domain]",
	Short: "Show which provider serves the zone of a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zone := dnsZone
		if zone == "" {
			var err error
			if _, zone, err = dns.Split(args[0]); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		info := dns.DetectProvider(cmd.Context(), zone)
		switch {
		case !info.Known():
			return fmt.Errorf("no nameservers found for %s", zone)
		case info.ServedByAWS():
			fmt.Fprintf(out, "✅ %s is served by %s (%s)\n", zone, info.Name, info.Host)
		default:
			fmt.Fprintf(out, "⚠️  %s is served by %s (%s)\n", zone, info.Name, info.Host)
			fmt.Fprintln(out, "   Point the domain's nameservers at the Lightsail DNS zone for the records to resolve.")
		}
		return nil
	},
}

func init() {
	nameserversCmd.Flags().StringVar(&dnsZone, "dns-zone", "", "Zone to check instead of the one inferred from the domain")
	rootCmd.AddCommand(nameserversCmd)
}
