package telemetry

import (
	"context"
	"testing"

	"ctchen222/movie-catalog/internal/config"
)

func TestInitOtel_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := InitOtel(context.Background(), &config.Config{})
	if err != nil {
		t.Fatalf("InitOtel returned error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("no-op shutdown returned error: %v", err)
	}
}
