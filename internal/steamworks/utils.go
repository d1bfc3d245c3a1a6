package steamworks

import (
	"sort"
	"strings"

	apperrors "github.com/louisbranch/steambridge/internal/platform/errors"
	"golang.org/x/text/language"
)

// Utils is the read-only utility query set of one session. Client sessions
// query ISteamUtils, server sessions query the game-server utility interface.
type Utils struct {
	session *Session
}

// Kind reports which session the queries target.
func (u *Utils) Kind() Kind {
	return u.session.kind
}

func (u *Utils) with(fn func(api API, utils uintptr)) error {
	return u.session.with(func(api API) {
		fn(api, u.session.utils)
	})
}

// SecondsSinceAppActive returns seconds since the application was last in the foreground.
func (u *Utils) SecondsSinceAppActive() (uint32, error) {
	var v uint32
	err := u.with(func(api API, p uintptr) { v = api.UtilsSecondsSinceAppActive(p) })
	return v, err
}

// SecondsSinceComputerActive returns seconds since any user input on the machine.
func (u *Utils) SecondsSinceComputerActive() (uint32, error) {
	var v uint32
	err := u.with(func(api API, p uintptr) { v = api.UtilsSecondsSinceComputerActive(p) })
	return v, err
}

// ConnectedUniverse returns the universe the session is connected to.
func (u *Utils) ConnectedUniverse() (Universe, error) {
	var v int32
	err := u.with(func(api API, p uintptr) { v = api.UtilsConnectedUniverse(p) })
	return Universe(v), err
}

// ServerRealTime returns the vendor server clock as Unix seconds.
func (u *Utils) ServerRealTime() (uint32, error) {
	var v uint32
	err := u.with(func(api API, p uintptr) { v = api.UtilsServerRealTime(p) })
	return v, err
}

// IPCountry returns the ISO 3166-1 alpha-2 country of the machine's public IP.
// Values the vendor returns that are not a known region pass through as-is.
func (u *Utils) IPCountry() (string, error) {
	var v string
	err := u.with(func(api API, p uintptr) { v = api.UtilsIPCountry(p) })
	if err != nil {
		return "", err
	}
	return normalizeCountry(v), nil
}

func normalizeCountry(raw string) string {
	code := strings.TrimSpace(raw)
	if len(code) != 2 {
		return raw
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return raw
	}
	return region.String()
}

// CurrentBatteryPower returns the battery level in percent, 255 on AC power.
func (u *Utils) CurrentBatteryPower() (uint8, error) {
	var v uint8
	err := u.with(func(api API, p uintptr) { v = api.UtilsCurrentBatteryPower(p) })
	return v, err
}

// AppID returns the app id the vendor associates with the running process.
func (u *Utils) AppID() (uint32, error) {
	var v uint32
	err := u.with(func(api API, p uintptr) { v = api.UtilsAppID(p) })
	return v, err
}

// IPCCallCount returns the inter-process calls made since the previous query.
// The vendor resets the counter on every read.
func (u *Utils) IPCCallCount() (uint32, error) {
	var v uint32
	err := u.with(func(api API, p uintptr) { v = api.UtilsIPCCallCount(p) })
	return v, err
}

// IsSteamRunningInVR reports VR mode.
func (u *Utils) IsSteamRunningInVR() (bool, error) {
	var v bool
	err := u.with(func(api API, p uintptr) { v = api.UtilsIsSteamRunningInVR(p) })
	return v, err
}

// IsSteamInBigPictureMode reports Big Picture mode.
func (u *Utils) IsSteamInBigPictureMode() (bool, error) {
	var v bool
	err := u.with(func(api API, p uintptr) { v = api.UtilsIsSteamInBigPictureMode(p) })
	return v, err
}

// IsSteamChinaLauncher reports whether the China launcher is running.
func (u *Utils) IsSteamChinaLauncher() (bool, error) {
	var v bool
	err := u.with(func(api API, p uintptr) { v = api.UtilsIsSteamChinaLauncher(p) })
	return v, err
}

// IsSteamRunningOnSteamDeck reports Steam Deck hardware.
func (u *Utils) IsSteamRunningOnSteamDeck() (bool, error) {
	var v bool
	err := u.with(func(api API, p uintptr) { v = api.UtilsIsSteamRunningOnSteamDeck(p) })
	return v, err
}

// Query names, shared by the Lua and gRPC surfaces.
const (
	QuerySecondsSinceAppActive      = "seconds_since_app_active"
	QuerySecondsSinceComputerActive = "seconds_since_computer_active"
	QueryConnectedUniverse          = "connected_universe"
	QueryServerRealTime             = "server_real_time"
	QueryIPCountry                  = "ip_country"
	QueryCurrentBatteryPower        = "current_battery_power"
	QueryAppID                      = "appid"
	QueryIPCCallCount               = "ipc_call_count"
	QueryIsSteamRunningInVR         = "is_steam_running_in_vr"
	QueryIsSteamInBigPictureMode    = "is_steam_in_big_picture_mode"
	QueryIsSteamChinaLauncher       = "is_steam_china_launcher"
	QueryIsSteamRunningOnSteamDeck  = "is_steam_running_on_steam_deck"
)

// queries maps names to calls returning plain scalars: uint32, int32, uint8,
// string or bool.
var queries = map[string]func(*Utils) (any, error){
	QuerySecondsSinceAppActive:      func(u *Utils) (any, error) { return u.SecondsSinceAppActive() },
	QuerySecondsSinceComputerActive: func(u *Utils) (any, error) { return u.SecondsSinceComputerActive() },
	QueryConnectedUniverse: func(u *Utils) (any, error) {
		v, err := u.ConnectedUniverse()
		return int32(v), err
	},
	QueryServerRealTime:            func(u *Utils) (any, error) { return u.ServerRealTime() },
	QueryIPCountry:                 func(u *Utils) (any, error) { return u.IPCountry() },
	QueryCurrentBatteryPower:       func(u *Utils) (any, error) { return u.CurrentBatteryPower() },
	QueryAppID:                     func(u *Utils) (any, error) { return u.AppID() },
	QueryIPCCallCount:              func(u *Utils) (any, error) { return u.IPCCallCount() },
	QueryIsSteamRunningInVR:        func(u *Utils) (any, error) { return u.IsSteamRunningInVR() },
	QueryIsSteamInBigPictureMode:   func(u *Utils) (any, error) { return u.IsSteamInBigPictureMode() },
	QueryIsSteamChinaLauncher:      func(u *Utils) (any, error) { return u.IsSteamChinaLauncher() },
	QueryIsSteamRunningOnSteamDeck: func(u *Utils) (any, error) { return u.IsSteamRunningOnSteamDeck() },
}

// QueryNames returns every utility query name in sorted order.
func QueryNames() []string {
	names := make([]string, 0, len(queries))
	for name := range queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Query runs one utility query by name.
func (u *Utils) Query(name string) (any, error) {
	query, ok := queries[name]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeUnknownQuery,
			"unknown utility query "+name, map[string]string{"query": name})
	}
	return query(u)
}

// Snapshot runs every utility query and returns the results keyed by name.
// The IPC call counter is read like any other query, so a snapshot resets it.
func (u *Utils) Snapshot() (map[string]any, error) {
	if err := u.with(func(API, uintptr) {}); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(queries))
	for _, name := range QueryNames() {
		value, err := queries[name](u)
		if err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, nil
}
