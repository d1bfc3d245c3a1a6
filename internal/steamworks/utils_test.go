package steamworks

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/steambridge/internal/platform/errors"
)

func TestUtilsWithoutSessionMakeNoVendorCall(t *testing.T) {
	api := newFakeAPI()
	bridge, _ := newTestBridge(t, api)

	session, err := bridge.Init(context.Background(), ClientOptions{})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	utils := session.Utils()
	session.Shutdown()
	before := len(api.Calls())

	for _, name := range QueryNames() {
		if _, err := utils.Query(name); !errors.Is(err, ErrNotInitialized) {
			t.Fatalf("%s: err = %v, want not initialized", name, err)
		}
	}
	if _, err := utils.Snapshot(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("snapshot: err = %v, want not initialized", err)
	}
	if after := len(api.Calls()); after != before {
		t.Fatalf("vendor calls after shutdown: %v", api.Calls()[before:])
	}
}

func TestUtilsOnNilSession(t *testing.T) {
	var session *Session
	if _, err := session.Utils().AppID(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("err = %v, want not initialized", err)
	}
	_, err := session.SteamID()
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("err = %v, want not initialized", err)
	}
	if strings.Contains(err.Error(), KindClient.String()) || strings.Contains(err.Error(), KindServer.String()) {
		t.Fatalf("nil session error names a kind: %v", err)
	}
}

func TestUtilsReadClientInterface(t *testing.T) {
	api := newFakeAPI()
	bridge, _ := newTestBridge(t, api)

	session, err := bridge.Init(context.Background(), ClientOptions{})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	utils := session.Utils()
	if utils.Kind() != KindClient {
		t.Fatalf("kind = %s", utils.Kind())
	}
	got, err := utils.SecondsSinceAppActive()
	if err != nil {
		t.Fatalf("seconds since app active: %v", err)
	}
	if got != uint32(api.utils)+1 {
		t.Fatalf("seconds since app active = %d, queried wrong interface", got)
	}
}

func TestUtilsReadServerInterface(t *testing.T) {
	api := newFakeAPI()
	bridge, _ := newTestBridge(t, api)

	session, err := bridge.ServerInit(context.Background(), DefaultServerOptions(480, 0, 27015))
	if err != nil {
		t.Fatalf("server init: %v", err)
	}
	got, err := session.Utils().SecondsSinceAppActive()
	if err != nil {
		t.Fatalf("seconds since app active: %v", err)
	}
	if got != uint32(api.serverUtils)+1 {
		t.Fatalf("seconds since app active = %d, queried wrong interface", got)
	}
}

func TestUtilsTypedQueries(t *testing.T) {
	api := newFakeAPI()
	bridge, _ := newTestBridge(t, api)
	session, err := bridge.Init(context.Background(), ClientOptions{})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	utils := session.Utils()

	if v, _ := utils.SecondsSinceComputerActive(); v != 7 {
		t.Fatalf("seconds since computer active = %d", v)
	}
	if v, _ := utils.ConnectedUniverse(); v != UniversePublic {
		t.Fatalf("universe = %s", v)
	}
	if v, _ := utils.ServerRealTime(); v != 1700000000 {
		t.Fatalf("server real time = %d", v)
	}
	if v, _ := utils.CurrentBatteryPower(); v != 255 {
		t.Fatalf("battery = %d", v)
	}
	if v, _ := utils.AppID(); v != 480 {
		t.Fatalf("app id = %d", v)
	}
	if v, _ := utils.IPCCallCount(); v != 3 {
		t.Fatalf("ipc call count = %d", v)
	}
	if v, _ := utils.IsSteamRunningInVR(); v {
		t.Fatal("vr = true")
	}
	if v, _ := utils.IsSteamInBigPictureMode(); !v {
		t.Fatal("big picture = false")
	}
	if v, _ := utils.IsSteamChinaLauncher(); v {
		t.Fatal("china launcher = true")
	}
	if v, _ := utils.IsSteamRunningOnSteamDeck(); !v {
		t.Fatal("steam deck = false")
	}
}

func TestIPCountryNormalization(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "us", want: "US"},
		{raw: "BR", want: "BR"},
		{raw: "", want: ""},
		{raw: "unknown", want: "unknown"},
		{raw: "ZZ", want: "ZZ"},
	}
	for _, tt := range tests {
		api := newFakeAPI()
		api.country = tt.raw
		bridge, _ := newTestBridge(t, api)
		session, err := bridge.Init(context.Background(), ClientOptions{})
		if err != nil {
			t.Fatalf("init: %v", err)
		}
		got, err := session.Utils().IPCountry()
		if err != nil {
			t.Fatalf("ip country: %v", err)
		}
		if got != tt.want {
			t.Fatalf("ip country(%q) = %q, want %q", tt.raw, got, tt.want)
		}
		session.Shutdown()
	}
}

func TestQueryNames(t *testing.T) {
	names := QueryNames()
	if len(names) != 12 {
		t.Fatalf("query names = %d, want 12", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("query names not sorted: %v", names)
		}
	}
}

func TestQueryUnknownName(t *testing.T) {
	api := newFakeAPI()
	bridge, _ := newTestBridge(t, api)
	session, err := bridge.Init(context.Background(), ClientOptions{})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	before := len(api.Calls())

	_, err = session.Utils().Query("battery")
	if !errors.Is(err, ErrUnknownQuery) {
		t.Fatalf("err = %v, want unknown query", err)
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Metadata["query"] != "battery" {
		t.Fatalf("missing query metadata: %#v", err)
	}
	if len(api.Calls()) != before {
		t.Fatal("unknown query reached the vendor")
	}
}

func TestSnapshot(t *testing.T) {
	api := newFakeAPI()
	bridge, _ := newTestBridge(t, api)
	session, err := bridge.Init(context.Background(), ClientOptions{})
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	got, err := session.Utils().Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := map[string]any{
		QuerySecondsSinceAppActive:      uint32(api.utils) + 1,
		QuerySecondsSinceComputerActive: uint32(7),
		QueryConnectedUniverse:          int32(1),
		QueryServerRealTime:             uint32(1700000000),
		QueryIPCountry:                  "US",
		QueryCurrentBatteryPower:        uint8(255),
		QueryAppID:                      uint32(480),
		QueryIPCCallCount:               uint32(3),
		QueryIsSteamRunningInVR:         false,
		QueryIsSteamInBigPictureMode:    true,
		QueryIsSteamChinaLauncher:       false,
		QueryIsSteamRunningOnSteamDeck:  true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("snapshot = %#v, want %#v", got, want)
	}
}
