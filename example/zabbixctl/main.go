// Command zabbixctl is a small command line client for the Zabbix API.
//
// Connection settings come from flags, ZABBIX_* environment variables or a
// .env file:
//
//	ZABBIX_API_URL, ZABBIX_API_USER, ZABBIX_API_PASSWORD, ZABBIX_API_TOKEN
//
// When ZABBIX_SESSION_KEY holds one or more "id:base64key" pairs, login
// seals the session token into --session-file and later commands reuse it
// instead of logging in again.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
