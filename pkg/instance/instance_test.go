package instance

import "testing"

func TestGetIDPrefersExplicitInstanceID(t *testing.T) {
	t.Setenv("COFFEESHOP_INSTANCE_ID", "api-1")
	t.Setenv("DYNO", "web.1")
	t.Setenv("HOSTNAME", "host")

	if got := GetID(); got != "api-1" {
		t.Fatalf("expected api-1, got %q", got)
	}
}

func TestGetIDFallsBack(t *testing.T) {
	t.Setenv("COFFEESHOP_INSTANCE_ID", "")
	t.Setenv("DYNO", " ")
	t.Setenv("HOSTNAME", "host")

	if got := GetID(); got != "host" {
		t.Fatalf("expected host, got %q", got)
	}

	t.Setenv("HOSTNAME", "")
	if got := GetID(); got != defaultID {
		t.Fatalf("expected default id, got %q", got)
	}
}
