package store

import (
	"testing"
	"time"

	"weeklypedia/internal/platform/config"
)

func TestFromConfig(t *testing.T) {
	t.Setenv("SERVICE_CHANGELOG_DRIVER", "ch")
	t.Setenv("SERVICE_CHANGELOG_DBURL", "clickhouse://replica:9000/{lang}wiki")
	t.Setenv("SERVICE_CHANGELOG_MAX_CONNS", "8")
	t.Setenv("SERVICE_CHANGELOG_PING_TIMEOUT", "1s")

	c, err := FromConfig(config.New(), "api")
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if c.Driver != DriverClickHouse || c.MaxConns != 8 || c.AppName != "api" {
		t.Fatalf("unexpected config %+v", c)
	}
	if !c.PerEdition() || c.ForLang("de").URL != "clickhouse://replica:9000/dewiki" {
		t.Fatalf("url template not expanded: %q", c.ForLang("de").URL)
	}
	if c.Connect.PingTimeout != time.Second || c.CH.ClientTag != "api" || !c.Lite.ReadOnly {
		t.Fatalf("unexpected knobs %+v", c)
	}
}

func TestFromConfig_BadDriver(t *testing.T) {
	t.Setenv("SERVICE_CHANGELOG_DRIVER", "mysql")
	t.Setenv("SERVICE_CHANGELOG_DBURL", "x")
	if _, err := FromConfig(config.New(), "api"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
