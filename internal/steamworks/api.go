// Package steamworks bridges the vendor Steamworks flat API into Go.
//
// A Bridge owns the loaded vendor surface. Sessions are capabilities: the only
// way to reach the user, game-server and utility interfaces is through a
// *Session returned by a successful Init or ServerInit, and every call on a
// session that has been shut down fails with a NOT_INITIALIZED error instead
// of touching a stale vendor pointer.
//
// The vendor keeps its own callback queue which must be pumped periodically
// from the same OS thread that issues every other call. The bridge does not run
// that pump; callers do, through Session.RunCallbacks.
package steamworks

// ProcessAPI covers the process-level lifecycle exports.
type ProcessAPI interface {
	IsSteamRunning() bool
	Init() bool
	Shutdown()
	RestartAppIfNecessary(appID uint32) bool
	RunCallbacks()
}

// UserAPI covers the ISteamUser and ISteamInput accessors used by client sessions.
type UserAPI interface {
	User() uintptr
	UserSteamID(user uintptr) uint64
	UserLoggedOn(user uintptr) bool
	Input() uintptr
	InputInit(input uintptr, explicitlyCallRunFrame bool) bool
}

// UtilsAPI covers ISteamUtils. The same methods serve the client and the
// game-server utility interfaces; only the pointer differs.
type UtilsAPI interface {
	Utils() uintptr
	GameServerUtils() uintptr
	UtilsSecondsSinceAppActive(utils uintptr) uint32
	UtilsSecondsSinceComputerActive(utils uintptr) uint32
	UtilsConnectedUniverse(utils uintptr) int32
	UtilsServerRealTime(utils uintptr) uint32
	UtilsIPCountry(utils uintptr) string
	UtilsCurrentBatteryPower(utils uintptr) uint8
	UtilsAppID(utils uintptr) uint32
	UtilsIPCCallCount(utils uintptr) uint32
	UtilsIsSteamRunningInVR(utils uintptr) bool
	UtilsIsSteamInBigPictureMode(utils uintptr) bool
	UtilsIsSteamChinaLauncher(utils uintptr) bool
	UtilsIsSteamRunningOnSteamDeck(utils uintptr) bool
}

// GameServerAPI covers the dedicated-server exports.
type GameServerAPI interface {
	GameServerInit(ip uint32, gamePort, queryPort uint16, mode int32, version string) bool
	GameServerShutdown()
	GameServerRunCallbacks()
	GameServer() uintptr
	GameServerSetModDir(server uintptr, dir string)
	GameServerSetProduct(server uintptr, product string)
	GameServerSetGameDescription(server uintptr, description string)
	GameServerLogOnAnonymous(server uintptr)
	GameServerSteamID(server uintptr) uint64
}

// API is the complete vendor surface consumed by the bridge.
type API interface {
	ProcessAPI
	UserAPI
	UtilsAPI
	GameServerAPI
}
