package steamworks

import "testing"

func TestSteamIDParts(t *testing.T) {
	id := SteamID(76561197960287930)
	if got := id.AccountID(); got != 22202 {
		t.Fatalf("account id = %d, want 22202", got)
	}
	if got := id.Instance(); got != 1 {
		t.Fatalf("instance = %d, want 1", got)
	}
	if got := id.AccountType(); got != 1 {
		t.Fatalf("account type = %d, want 1", got)
	}
	if got := id.Universe(); got != UniversePublic {
		t.Fatalf("universe = %s, want public", got)
	}
	if got := id.String(); got != "76561197960287930" {
		t.Fatalf("string = %q", got)
	}
}

func TestServerModeValid(t *testing.T) {
	for _, mode := range []ServerMode{ServerModeNoAuth, ServerModeAuth, ServerModeAuthAndSecure} {
		if !mode.Valid() {
			t.Fatalf("mode %d reported invalid", mode)
		}
	}
	for _, mode := range []ServerMode{0, 4, 255} {
		if mode.Valid() {
			t.Fatalf("mode %d reported valid", mode)
		}
	}
}

func TestDefaultServerOptions(t *testing.T) {
	opts := DefaultServerOptions(480, 0, 27015)
	if opts.QueryPort != QueryPortShared {
		t.Fatalf("query port = %d, want shared", opts.QueryPort)
	}
	if opts.Mode != ServerModeNoAuth {
		t.Fatalf("mode = %s, want no_auth", opts.Mode)
	}
	if opts.Version != DefaultVersionString {
		t.Fatalf("version = %q", opts.Version)
	}
}

func TestServerOptionsWithDefaultsKeepsExplicitValues(t *testing.T) {
	opts := ServerOptions{AppID: 480, Version: "1.2.3", Product: "p", Description: "d", ModDir: "m"}.withDefaults()
	if opts.Version != "1.2.3" || opts.Product != "p" || opts.Description != "d" || opts.ModDir != "m" {
		t.Fatalf("explicit values overwritten: %+v", opts)
	}
	empty := ServerOptions{}.withDefaults()
	if empty.Version != DefaultVersionString || empty.Product != DefaultProduct || empty.Description != DefaultDescription {
		t.Fatalf("defaults not applied: %+v", empty)
	}
	if empty.Mode != 0 {
		t.Fatalf("mode = %d, want unset mode kept for validation", empty.Mode)
	}
}

func TestKindString(t *testing.T) {
	if KindClient.String() != "client" || KindServer.String() != "server" {
		t.Fatalf("kind strings = %q, %q", KindClient, KindServer)
	}
}
