//go:build !zabbix_nohost && !zabbix_noitem && !zabbix_notrigger && !zabbix_nowebscenario

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mnehpets/zabbixrpc/zabbix"
)

func main() {
	host := flag.String("host", "example-web-01", "technical name of the host to create")
	ip := flag.String("ip", "127.0.0.1", "agent interface address")
	group := flag.String("group", "Example servers", "host group to place the host in, created if missing")
	site := flag.String("url", "https://www.zabbix.com", "page checked by the web scenario")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	client, err := zabbix.NewClient(zabbix.Config{
		URL:      os.Getenv("ZABBIX_API_URL"),
		Username: os.Getenv("ZABBIX_API_USER"),
		Password: os.Getenv("ZABBIX_API_PASSWORD"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	ctx := context.Background()
	if err := client.Authenticate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Login failed")
	}
	err = populate(ctx, client, *host, *ip, *group, *site)
	if lerr := client.Logout(ctx); lerr != nil {
		log.Error().Err(lerr).Msg("Logout failed")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot create host")
	}
}

// populate creates the host with one item, one trigger and one web scenario.
func populate(ctx context.Context, client *zabbix.Client, host, ip, group, site string) error {
	groupID, err := ensureGroup(ctx, client, group)
	if err != nil {
		return fmt.Errorf("host group %q: %w", group, err)
	}

	hostIDs, err := client.CreateHost(ctx, zabbix.CreateHostRequest{
		Host:   host,
		Groups: []zabbix.HostGroupID{{GroupID: groupID}},
		Interfaces: []zabbix.HostInterface{
			{Type: "1", Main: "1", UseIP: "1", IP: ip, Port: "10050"},
		},
		Tags: []zabbix.Tag{{Tag: "created-by", Value: "zabbixrpc"}},
	})
	if err != nil {
		return fmt.Errorf("host.create: %w", err)
	}
	hostID := hostIDs[0]
	log.Info().Str("hostid", hostID).Msg("Host created")

	// The agent interface id is needed for agent items.
	hosts, err := client.GetHosts(ctx, zabbix.HostGetParams{
		HostIDs:          []string{hostID},
		SelectInterfaces: zabbix.Output{"interfaceid"},
	})
	if err != nil {
		return fmt.Errorf("host.get: %w", err)
	}
	if len(hosts) == 0 || len(hosts[0].Interfaces) == 0 {
		return fmt.Errorf("host %s has no interfaces", hostID)
	}

	itemIDs, err := client.CreateItem(ctx, zabbix.CreateItemRequest{
		Name:        "CPU load (1m avg)",
		Key:         "system.cpu.load[all,avg1]",
		HostID:      hostID,
		Type:        0,
		ValueType:   0,
		InterfaceID: hosts[0].Interfaces[0].InterfaceID,
		Delay:       "1m",
	})
	if err != nil {
		return fmt.Errorf("item.create: %w", err)
	}
	log.Info().Str("itemid", itemIDs[0]).Msg("Item created")

	triggerIDs, err := client.CreateTrigger(ctx, zabbix.CreateTriggerRequest{
		Description: "High CPU load on {HOST.NAME}",
		Expression:  "avg(/" + host + "/system.cpu.load[all,avg1],5m)>5",
		Priority:    zabbix.PriorityWarning,
	})
	if err != nil {
		return fmt.Errorf("trigger.create: %w", err)
	}
	log.Info().Str("triggerid", triggerIDs[0]).Msg("Trigger created")

	scenarioIDs, err := client.CreateWebScenario(ctx, zabbix.CreateWebScenarioRequest{
		Name:   "Homepage",
		HostID: hostID,
		Delay:  "5m",
		Steps: []zabbix.WebScenarioStep{
			{Name: "Front page", URL: site, StatusCodes: "200", No: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("httptest.create: %w", err)
	}
	log.Info().Str("httptestid", scenarioIDs[0]).Msg("Web scenario created")
	return nil
}

// ensureGroup returns the id of the host group called name, creating it if
// needed.
func ensureGroup(ctx context.Context, client *zabbix.Client, name string) (string, error) {
	groups, err := client.GetHostGroups(ctx, zabbix.HostGroupGetParams{
		GetParams: zabbix.GetParams{Filter: map[string]any{"name": []string{name}}},
	})
	if err != nil {
		return "", err
	}
	if len(groups) > 0 {
		return groups[0].GroupID, nil
	}
	ids, err := client.CreateHostGroup(ctx, zabbix.CreateHostGroupRequest{Name: name})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}
