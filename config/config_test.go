package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "srxgraph.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Fatalf("default driver = %q, want sqlite", cfg.DatabaseDriver)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file not written: %v", err)
	}

	// A second load reads the file it just wrote.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *again != *cfg {
		t.Fatalf("reload mismatch: %+v vs %+v", again, cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing rpc",
			body: "ContractAddress = \"0x0000000000000000000000000000000000000001\"\nDatabaseDriver = \"sqlite\"\nDatabaseDSN = \"file:x.db\"\n",
			want: "RPCURL",
		},
		{
			name: "bad contract address",
			body: "RPCURL = \"ws://localhost:8546\"\nContractAddress = \"not-an-address\"\nDatabaseDriver = \"sqlite\"\nDatabaseDSN = \"file:x.db\"\n",
			want: "ContractAddress",
		},
		{
			name: "unknown driver",
			body: "RPCURL = \"ws://localhost:8546\"\nContractAddress = \"0x0000000000000000000000000000000000000001\"\nDatabaseDriver = \"oracle\"\nDatabaseDSN = \"dsn\"\n",
			want: "DatabaseDriver",
		},
		{
			name: "missing dsn",
			body: "RPCURL = \"ws://localhost:8546\"\nContractAddress = \"0x0000000000000000000000000000000000000001\"\nDatabaseDriver = \"postgres\"\n",
			want: "DatabaseDSN",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "srxgraph.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}

func TestLoadValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "srxgraph.toml")
	body := `RPCURL = "ws://node:8546"
ContractAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
StartBlock = 1500
DatabaseDriver = "postgres"
DatabaseDSN = "host=db user=srxgraph dbname=srxgraph"
APIListenAddress = ":8080"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StartBlock != 1500 || cfg.DatabaseDriver != DriverPostgres {
		t.Fatalf("cfg = %+v", cfg)
	}
}
