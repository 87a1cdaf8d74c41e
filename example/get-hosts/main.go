//go:build !zabbix_nohost

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mnehpets/zabbixrpc/zabbix"
)

func main() {
	name := flag.String("name", "", "substring of the host name to search for")
	v6 := flag.Bool("v6", false, "talk to a Zabbix 6.0 server")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	cfg := zabbix.Config{
		URL:      os.Getenv("ZABBIX_API_URL"),
		Username: os.Getenv("ZABBIX_API_USER"),
		Password: os.Getenv("ZABBIX_API_PASSWORD"),
	}
	if *v6 {
		cfg.Variant = zabbix.V6
	}
	client, err := zabbix.NewClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	ctx := context.Background()
	if err := client.Authenticate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Login failed")
	}

	params := zabbix.HostGetParams{
		GetParams: zabbix.GetParams{
			Output:    zabbix.Output{"hostid", "host", "name", "status"},
			SortField: []string{"name"},
		},
		SelectHostGroups: zabbix.Output{"name"},
		SelectInterfaces: zabbix.Output{"ip", "dns", "port", "main"},
	}
	if *name != "" {
		params.Search = map[string]any{"name": *name}
	}
	hosts, err := client.GetHosts(ctx, params)
	if lerr := client.Logout(ctx); lerr != nil {
		log.Error().Err(lerr).Msg("Logout failed")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("host.get failed")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HOSTID\tHOST\tSTATUS\tADDRESS\tGROUPS")
	for _, h := range hosts {
		status := "enabled"
		if h.Status == zabbix.HostUnmonitored {
			status = "disabled"
		}
		var addr string
		for _, iface := range h.Interfaces {
			if iface.Main == "1" {
				addr = iface.IP
				if addr == "" {
					addr = iface.DNS
				}
				addr += ":" + iface.Port
				break
			}
		}
		// v6 servers fill Groups, v7 servers HostGroups.
		var groups []string
		for _, g := range append(h.Groups, h.HostGroups...) {
			groups = append(groups, g.Name)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", h.HostID, h.Host, status, addr, strings.Join(groups, ","))
	}
	w.Flush()
}
