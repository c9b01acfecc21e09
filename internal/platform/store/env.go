package store

import (
	"time"

	"weeklypedia/internal/platform/config"
)

// FromConfig reads SERVICE_CHANGELOG_* connection settings
// DBURL may carry {lang} to open one replica per edition
func FromConfig(cfg config.Conf, appName string) (Config, error) {
	cc := cfg.Prefix("SERVICE_CHANGELOG_")
	d, err := ParseDriver(cc.MayString("DRIVER", string(DriverPostgres)))
	if err != nil {
		return Config{}, err
	}
	return Config{
		AppName:      appName,
		Driver:       d,
		URL:          cc.MustString("DBURL"),
		MaxConns:     cc.MayInt("MAX_CONNS", 4),
		LogSQL:       cc.MayBool("LOG_SQL", true),
		SlowQueryMs:  cc.MayInt("SLOW_MS", 500),
		QueryTimeout: cc.MayDuration("STATEMENT_TIMEOUT", 30*time.Second),
		Connect: ConnectConfig{
			Retries:     cc.MayInt("CONNECT_RETRIES", 6),
			PingTimeout: cc.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			ClientName:  "weeklypedia",
			ClientTag:   appName,
			DialTimeout: cc.MayDuration("DIAL_TIMEOUT", 5*time.Second),
		},
		Lite: LiteConfig{ReadOnly: cc.MayBool("READ_ONLY", true)},
	}, nil
}
