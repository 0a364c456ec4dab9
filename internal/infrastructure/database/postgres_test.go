package database

import (
	"testing"

	"unihealth-admin/config"

	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: "5432", User: "admin", Password: "secret", Name: "unihealth", TimeZone: "Asia/Jakarta"}
	require.Equal(t, "host=db user=admin password=secret dbname=unihealth port=5432 sslmode=disable TimeZone=Asia/Jakarta", DSN(cfg))

	cfg.TimeZone = ""
	require.Contains(t, DSN(cfg), "TimeZone=UTC")
}
