//go:build !zabbix_nohost

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mnehpets/zabbixrpc/zabbix"
)

func init() {
	unitCommands = append(unitCommands, (*cli).hostsCmd, (*cli).hostGroupsCmd)
}

func (c *cli) hostsCmd() *cobra.Command {
	var name string
	var limit int
	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "List hosts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.connect(cmd.Context())
			if err != nil {
				return err
			}
			params := zabbix.HostGetParams{
				GetParams: zabbix.GetParams{
					Output:    zabbix.Output{"hostid", "host", "name", "status"},
					SortField: []string{"host"},
					Limit:     limit,
				},
				SelectHostGroups: zabbix.Output{"name"},
			}
			if name != "" {
				params.Search = map[string]any{"host": name, "name": name}
				params.SearchByAny = true
			}
			hosts, err := client.GetHosts(cmd.Context(), params)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "HOSTID\tHOST\tNAME\tSTATUS\tGROUPS")
			for _, h := range hosts {
				status := "monitored"
				if h.Status == zabbix.HostUnmonitored {
					status = "unmonitored"
				}
				var groups []string
				for _, g := range append(h.Groups, h.HostGroups...) {
					groups = append(groups, g.Name)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", h.HostID, h.Host, h.Name, status, strings.Join(groups, ","))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "only hosts whose name contains this text")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of hosts")
	return cmd
}

func (c *cli) hostGroupsCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "hostgroups",
		Short: "List host groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.connect(cmd.Context())
			if err != nil {
				return err
			}
			params := zabbix.HostGroupGetParams{
				GetParams: zabbix.GetParams{Output: zabbix.OutputExtend, SortField: []string{"name"}},
			}
			if name != "" {
				params.Search = map[string]any{"name": name}
			}
			groups, err := client.GetHostGroups(cmd.Context(), params)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "GROUPID\tNAME")
			for _, g := range groups {
				fmt.Fprintf(w, "%s\t%s\n", g.GroupID, g.Name)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "only groups whose name contains this text")
	return cmd
}
