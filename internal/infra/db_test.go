package infra

import (
	"testing"
	"time"
)

func TestPoolConfig(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://u:p@localhost:5432/ledger", DBMaxConns: 7}
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		t.Fatalf("poolConfig: %v", err)
	}
	if poolCfg.MaxConns != 7 || poolCfg.MinConns != 0 {
		t.Fatalf("conns = %d/%d", poolCfg.MinConns, poolCfg.MaxConns)
	}
	if poolCfg.ConnConfig.ConnectTimeout != 5*time.Second {
		t.Fatalf("connect timeout = %v", poolCfg.ConnConfig.ConnectTimeout)
	}
	if got := poolCfg.ConnConfig.RuntimeParams["application_name"]; got != "ledger" {
		t.Fatalf("application_name = %q", got)
	}
}

func TestPoolConfigKeepsURLSettings(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://u:p@localhost:5432/ledger?application_name=reports&connect_timeout=2", DBMaxConns: 3}
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		t.Fatalf("poolConfig: %v", err)
	}
	if got := poolCfg.ConnConfig.RuntimeParams["application_name"]; got != "reports" {
		t.Fatalf("application_name = %q", got)
	}
	if poolCfg.ConnConfig.ConnectTimeout != 2*time.Second {
		t.Fatalf("connect timeout = %v", poolCfg.ConnConfig.ConnectTimeout)
	}
}

func TestPoolConfigErrors(t *testing.T) {
	if _, err := poolConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := poolConfig(&Config{DatabaseURL: "postgres://localhost:notaport/ledger"}); err == nil {
		t.Fatal("expected error for bad url")
	}
}
