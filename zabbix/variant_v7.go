//go:build !zabbix_v6

package zabbix

// DefaultVariant is the protocol variant used when Config.Variant is unset.
var DefaultVariant = V7
