package steamworks

import (
	"os"
	"sync"
)

// fakeAPI records vendor calls. Environment reads go through lookupEnv so a
// test can observe what the vendor would have seen at init time.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	running      bool
	initOK       bool
	serverInitOK bool
	loggedOn     bool
	inputOK      bool

	user, utils, server, serverUtils, input uintptr

	userID, serverID uint64

	envAtInit       string
	envSetAtInit    bool
	envAtServerInit string
	envSetAtServer  bool
	serverInitArgs  serverInitCall

	country string
}

type serverInitCall struct {
	ip        uint32
	gamePort  uint16
	queryPort uint16
	mode      int32
	version   string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		running:      true,
		initOK:       true,
		serverInitOK: true,
		loggedOn:     true,
		inputOK:      true,
		user:         0x1000,
		utils:        0x2000,
		server:       0x3000,
		serverUtils:  0x4000,
		input:        0x5000,
		userID:       76561197960287930,
		serverID:     90071992547409920,
		country:      "us",
	}
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) count(name string) int {
	n := 0
	for _, call := range f.Calls() {
		if call == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) IsSteamRunning() bool { f.record("IsSteamRunning"); return f.running }
func (f *fakeAPI) Init() bool {
	f.record("Init")
	f.envAtInit, f.envSetAtInit = os.LookupEnv(AppIDEnvVar)
	return f.initOK
}
func (f *fakeAPI) Shutdown()                         { f.record("Shutdown") }
func (f *fakeAPI) RestartAppIfNecessary(uint32) bool { f.record("RestartAppIfNecessary"); return true }
func (f *fakeAPI) RunCallbacks()                     { f.record("RunCallbacks") }
func (f *fakeAPI) User() uintptr                     { f.record("User"); return f.user }
func (f *fakeAPI) UserSteamID(uintptr) uint64        { f.record("UserSteamID"); return f.userID }
func (f *fakeAPI) UserLoggedOn(uintptr) bool         { f.record("UserLoggedOn"); return f.loggedOn }
func (f *fakeAPI) Input() uintptr                    { f.record("Input"); return f.input }
func (f *fakeAPI) InputInit(uintptr, bool) bool      { f.record("InputInit"); return f.inputOK }
func (f *fakeAPI) Utils() uintptr                    { f.record("Utils"); return f.utils }
func (f *fakeAPI) GameServerUtils() uintptr          { f.record("GameServerUtils"); return f.serverUtils }
func (f *fakeAPI) UtilsSecondsSinceAppActive(p uintptr) uint32 {
	f.record("UtilsSecondsSinceAppActive")
	return uint32(p) + 1
}
func (f *fakeAPI) UtilsSecondsSinceComputerActive(uintptr) uint32 {
	f.record("UtilsSecondsSinceComputerActive")
	return 7
}
func (f *fakeAPI) UtilsConnectedUniverse(uintptr) int32 { f.record("UtilsConnectedUniverse"); return 1 }
func (f *fakeAPI) UtilsServerRealTime(uintptr) uint32 {
	f.record("UtilsServerRealTime")
	return 1700000000
}
func (f *fakeAPI) UtilsIPCountry(uintptr) string { f.record("UtilsIPCountry"); return f.country }
func (f *fakeAPI) UtilsCurrentBatteryPower(uintptr) uint8 {
	f.record("UtilsCurrentBatteryPower")
	return 255
}
func (f *fakeAPI) UtilsAppID(uintptr) uint32        { f.record("UtilsAppID"); return 480 }
func (f *fakeAPI) UtilsIPCCallCount(uintptr) uint32 { f.record("UtilsIPCCallCount"); return 3 }
func (f *fakeAPI) UtilsIsSteamRunningInVR(uintptr) bool {
	f.record("UtilsIsSteamRunningInVR")
	return false
}
func (f *fakeAPI) UtilsIsSteamInBigPictureMode(uintptr) bool {
	f.record("UtilsIsSteamInBigPictureMode")
	return true
}
func (f *fakeAPI) UtilsIsSteamChinaLauncher(uintptr) bool {
	f.record("UtilsIsSteamChinaLauncher")
	return false
}
func (f *fakeAPI) UtilsIsSteamRunningOnSteamDeck(uintptr) bool {
	f.record("UtilsIsSteamRunningOnSteamDeck")
	return true
}
func (f *fakeAPI) GameServerInit(ip uint32, gamePort, queryPort uint16, mode int32, version string) bool {
	f.record("GameServerInit")
	f.envAtServerInit, f.envSetAtServer = os.LookupEnv(AppIDEnvVar)
	f.serverInitArgs = serverInitCall{ip: ip, gamePort: gamePort, queryPort: queryPort, mode: mode, version: version}
	return f.serverInitOK
}
func (f *fakeAPI) GameServerShutdown()                  { f.record("GameServerShutdown") }
func (f *fakeAPI) GameServerRunCallbacks()              { f.record("GameServerRunCallbacks") }
func (f *fakeAPI) GameServer() uintptr                  { f.record("GameServer"); return f.server }
func (f *fakeAPI) GameServerSetModDir(uintptr, string)  { f.record("GameServerSetModDir") }
func (f *fakeAPI) GameServerSetProduct(uintptr, string) { f.record("GameServerSetProduct") }
func (f *fakeAPI) GameServerSetGameDescription(uintptr, string) {
	f.record("GameServerSetGameDescription")
}
func (f *fakeAPI) GameServerLogOnAnonymous(uintptr) { f.record("GameServerLogOnAnonymous") }
func (f *fakeAPI) GameServerSteamID(uintptr) uint64 { f.record("GameServerSteamID"); return f.serverID }

// recordingEnviron wraps OSEnviron and logs every mutation.
type recordingEnviron struct {
	ops       []string
	failSet   error
	failUnset error
}

func (e *recordingEnviron) Setenv(key, value string) error {
	e.ops = append(e.ops, "set "+key+"="+value)
	if e.failSet != nil {
		return e.failSet
	}
	return os.Setenv(key, value)
}

func (e *recordingEnviron) Unsetenv(key string) error {
	e.ops = append(e.ops, "unset "+key)
	if e.failUnset != nil {
		return e.failUnset
	}
	return os.Unsetenv(key)
}
