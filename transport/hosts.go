package transport

import "fmt"

const (
	readHostSuffix     = "-dsn.algolia.net"
	writeHostSuffix    = ".algolia.net"
	fallbackHostSuffix = ".algolianet.com"
	insightsHost       = "insights.algolia.io"
)

// SelectHost resolves the target hostname for a role and attempt number.
// It is a pure function of its inputs so concurrent dispatches never race
// on shared counters:
//
//	read, attempt 0     -> {app-id}-dsn.algolia.net
//	write, attempt 0    -> {app-id}.algolia.net
//	insights, any       -> insights.algolia.io
//	otherwise           -> {app-id}-{order[(attempt-1) mod N]}.algolianet.com
func SelectHost(role Role, attempt int, cfg *Config) string {
	if role == RoleInsights {
		return insightsHost
	}

	if attempt == 0 {
		if role == RoleWrite {
			return cfg.AppID + writeHostSuffix
		}
		return cfg.AppID + readHostSuffix
	}

	order := cfg.FallbackHosts
	if len(order) == 0 {
		order = DefaultFallbackHosts
	}
	return fmt.Sprintf("%s-%d%s", cfg.AppID, order[(attempt-1)%len(order)], fallbackHostSuffix)
}
