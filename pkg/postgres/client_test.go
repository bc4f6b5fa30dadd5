package postgres

import (
	"testing"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/config"
)

func TestNewUnreachable(t *testing.T) {
	_, err := New(config.PostgresConfig{
		Host: "127.0.0.1", Port: 1, User: "u", Password: "p", Database: "d", SSLMode: "disable",
		MaxOpenConns: 1,
	})
	if err == nil {
		t.Fatal("expected an error connecting to a closed port")
	}
}
