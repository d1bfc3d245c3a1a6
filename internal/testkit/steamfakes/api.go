// Package steamfakes provides an in-memory vendor API for tests of the
// surfaces built on the steamworks bridge.
package steamfakes

import (
	"sync"

	"github.com/louisbranch/steambridge/internal/steamworks"
)

// API is a steamworks.API fake that records every call by name.
type API struct {
	mu    sync.Mutex
	calls []string

	Running      bool
	InitOK       bool
	ServerInitOK bool
	LoggedOn     bool
	InputOK      bool

	UserID   uint64
	ServerID uint64
	Country  string
	AppID    uint32

	// LastServerInit holds the arguments of the latest GameServerInit.
	LastServerInit ServerInitArgs
}

// ServerInitArgs captures a GameServerInit call.
type ServerInitArgs struct {
	IP        uint32
	GamePort  uint16
	QueryPort uint16
	Mode      int32
	Version   string
}

var _ steamworks.API = (*API)(nil)

// NewAPI returns a fake with a running platform client and a logged-on user.
func NewAPI() *API {
	return &API{
		Running:      true,
		InitOK:       true,
		ServerInitOK: true,
		LoggedOn:     true,
		InputOK:      true,
		UserID:       76561197960287930,
		ServerID:     90071992547409920,
		Country:      "se",
		AppID:        480,
	}
}

// Calls returns the recorded call names in order.
func (a *API) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

// Count returns how many times name was called.
func (a *API) Count(name string) int {
	n := 0
	for _, call := range a.Calls() {
		if call == name {
			n++
		}
	}
	return n
}

func (a *API) record(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, name)
}

func (a *API) IsSteamRunning() bool              { a.record("IsSteamRunning"); return a.Running }
func (a *API) Init() bool                        { a.record("Init"); return a.InitOK }
func (a *API) Shutdown()                         { a.record("Shutdown") }
func (a *API) RestartAppIfNecessary(uint32) bool { a.record("RestartAppIfNecessary"); return false }
func (a *API) RunCallbacks()                     { a.record("RunCallbacks") }

func (a *API) User() uintptr                { a.record("User"); return 0x1000 }
func (a *API) UserSteamID(uintptr) uint64   { a.record("UserSteamID"); return a.UserID }
func (a *API) UserLoggedOn(uintptr) bool    { a.record("UserLoggedOn"); return a.LoggedOn }
func (a *API) Input() uintptr               { a.record("Input"); return 0x5000 }
func (a *API) InputInit(uintptr, bool) bool { a.record("InputInit"); return a.InputOK }
func (a *API) Utils() uintptr               { a.record("Utils"); return 0x2000 }
func (a *API) GameServerUtils() uintptr     { a.record("GameServerUtils"); return 0x4000 }

func (a *API) UtilsSecondsSinceAppActive(uintptr) uint32 {
	a.record("UtilsSecondsSinceAppActive")
	return 12
}

func (a *API) UtilsSecondsSinceComputerActive(uintptr) uint32 {
	a.record("UtilsSecondsSinceComputerActive")
	return 4
}

func (a *API) UtilsConnectedUniverse(uintptr) int32 {
	a.record("UtilsConnectedUniverse")
	return int32(steamworks.UniversePublic)
}

func (a *API) UtilsServerRealTime(uintptr) uint32 {
	a.record("UtilsServerRealTime")
	return 1760000000
}

func (a *API) UtilsIPCountry(uintptr) string { a.record("UtilsIPCountry"); return a.Country }

func (a *API) UtilsCurrentBatteryPower(uintptr) uint8 {
	a.record("UtilsCurrentBatteryPower")
	return 87
}

func (a *API) UtilsAppID(uintptr) uint32        { a.record("UtilsAppID"); return a.AppID }
func (a *API) UtilsIPCCallCount(uintptr) uint32 { a.record("UtilsIPCCallCount"); return 9 }

func (a *API) UtilsIsSteamRunningInVR(uintptr) bool {
	a.record("UtilsIsSteamRunningInVR")
	return false
}

func (a *API) UtilsIsSteamInBigPictureMode(uintptr) bool {
	a.record("UtilsIsSteamInBigPictureMode")
	return false
}

func (a *API) UtilsIsSteamChinaLauncher(uintptr) bool {
	a.record("UtilsIsSteamChinaLauncher")
	return false
}

func (a *API) UtilsIsSteamRunningOnSteamDeck(uintptr) bool {
	a.record("UtilsIsSteamRunningOnSteamDeck")
	return true
}

func (a *API) GameServerInit(ip uint32, gamePort, queryPort uint16, mode int32, version string) bool {
	a.record("GameServerInit")
	a.mu.Lock()
	a.LastServerInit = ServerInitArgs{IP: ip, GamePort: gamePort, QueryPort: queryPort, Mode: mode, Version: version}
	a.mu.Unlock()
	return a.ServerInitOK
}

func (a *API) GameServerShutdown()                  { a.record("GameServerShutdown") }
func (a *API) GameServerRunCallbacks()              { a.record("GameServerRunCallbacks") }
func (a *API) GameServer() uintptr                  { a.record("GameServer"); return 0x3000 }
func (a *API) GameServerSetModDir(uintptr, string)  { a.record("GameServerSetModDir") }
func (a *API) GameServerSetProduct(uintptr, string) { a.record("GameServerSetProduct") }
func (a *API) GameServerLogOnAnonymous(uintptr)     { a.record("GameServerLogOnAnonymous") }
func (a *API) GameServerSteamID(uintptr) uint64     { a.record("GameServerSteamID"); return a.ServerID }

func (a *API) GameServerSetGameDescription(uintptr, string) {
	a.record("GameServerSetGameDescription")
}

// Environ records SteamAppId writes without touching the process environment.
type Environ struct {
	mu   sync.Mutex
	vars map[string]string
	Ops  []string
}

// NewEnviron returns an empty recording environment.
func NewEnviron() *Environ {
	return &Environ{vars: map[string]string{}}
}

func (e *Environ) Setenv(key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[key] = value
	e.Ops = append(e.Ops, "set "+key+"="+value)
	return nil
}

func (e *Environ) Unsetenv(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.vars, key)
	e.Ops = append(e.Ops, "unset "+key)
	return nil
}

// Lookup returns the current value of key.
func (e *Environ) Lookup(key string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.vars[key]
	return v, ok
}

// NewBridge returns a bridge over api with a recording environment.
func NewBridge(api *API) (*steamworks.Bridge, *Environ) {
	env := NewEnviron()
	bridge, err := steamworks.New(api, steamworks.Config{Environ: env})
	if err != nil {
		panic(err)
	}
	return bridge, env
}
