// Package luabind exposes the steamworks bridge to Lua scripts.
//
// Open registers a global "steamworks" table. Sessions come back as userdata
// of type SteamAPI (client) or SteamGameServer (server); both share one method
// set. Steam IDs are returned as decimal strings since Lua numbers are doubles
// and cannot hold every 64-bit id.
package luabind

import (
	"context"
	"fmt"
	"math"

	"github.com/Shopify/go-lua"
	apperrors "github.com/louisbranch/steambridge/internal/platform/errors"
	"github.com/louisbranch/steambridge/internal/steamworks"
)

const (
	// GlobalName is the global table holding the bridge functions.
	GlobalName = "steamworks"

	clientTypeName = "SteamAPI"
	serverTypeName = "SteamGameServer"
)

type binding struct {
	ctx    context.Context
	bridge *steamworks.Bridge
}

// Open registers the bridge in state.
func Open(state *lua.State, bridge *steamworks.Bridge) {
	OpenContext(context.Background(), state, bridge)
}

// OpenContext registers the bridge in state; init calls made by the script
// inherit ctx for tracing.
func OpenContext(ctx context.Context, state *lua.State, bridge *steamworks.Bridge) {
	b := &binding{ctx: ctx, bridge: bridge}
	registerSessionType(state, clientTypeName)
	registerSessionType(state, serverTypeName)

	state.NewTable()
	lua.SetFunctions(state, b.functions(), 0)
	setInteger(state, "eServerModeNoAuthentication", int(steamworks.ServerModeNoAuth))
	setInteger(state, "eServerModeAuthentication", int(steamworks.ServerModeAuth))
	setInteger(state, "eServerModeAuthenticationAndSecure", int(steamworks.ServerModeAuthAndSecure))
	setInteger(state, "STEAMGAMESERVER_QUERY_PORT_SHARED", int(steamworks.QueryPortShared))
	state.PushString(steamworks.DefaultVersionString)
	state.SetField(-2, "STEAMGAMESERVER_INTERFACE_VERSION")
	state.SetGlobal(GlobalName)
}

func setInteger(state *lua.State, name string, value int) {
	state.PushInteger(value)
	state.SetField(-2, name)
}

func (b *binding) functions() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "is_steam_running", Function: b.isSteamRunning},
		{Name: "restart_app_if_necessary", Function: b.restartAppIfNecessary},
		{Name: "init", Function: b.init},
		{Name: "shutdown", Function: b.shutdown},
		{Name: "server_init", Function: b.serverInit},
		{Name: "server_shutdown", Function: b.serverShutdown},
		{Name: "query_names", Function: queryNames},
	}
}

func (b *binding) isSteamRunning(state *lua.State) int {
	state.PushBoolean(b.bridge.IsSteamRunning())
	return 1
}

func (b *binding) restartAppIfNecessary(state *lua.State) int {
	appID := checkUint(state, 1, math.MaxUint32, "appid")
	state.PushBoolean(b.bridge.RestartAppIfNecessary(uint32(appID)))
	return 1
}

// init([appid [, strict]])
func (b *binding) init(state *lua.State) int {
	var opts steamworks.ClientOptions
	if !state.IsNoneOrNil(1) {
		appID := uint32(checkUint(state, 1, math.MaxUint32, "appid"))
		opts.AppID = &appID
	}
	opts.Strict = state.ToBoolean(2)

	session, err := b.bridge.Init(b.ctx, opts)
	if err != nil {
		raise(state, err)
		return 0
	}
	pushSession(state, session)
	return 1
}

func (b *binding) shutdown(*lua.State) int {
	b.bridge.Shutdown(steamworks.KindClient)
	return 0
}

// server_init(appid, ip, game_port [, query_port [, mode [, version]]])
func (b *binding) serverInit(state *lua.State) int {
	appID := uint32(checkUint(state, 1, math.MaxUint32, "appid"))
	ip := checkIP(state, 2)
	gamePort := uint16(checkUint(state, 3, math.MaxUint16, "game_port"))
	opts := steamworks.DefaultServerOptions(appID, ip, gamePort)
	if !state.IsNoneOrNil(4) {
		opts.QueryPort = uint16(checkUint(state, 4, math.MaxUint16, "query_port"))
	}
	if !state.IsNoneOrNil(5) {
		opts.Mode = steamworks.ServerMode(checkUint(state, 5, math.MaxInt32, "mode"))
	}
	opts.Version = lua.OptString(state, 6, steamworks.DefaultVersionString)

	session, err := b.bridge.ServerInit(b.ctx, opts)
	if err != nil {
		raise(state, err)
		return 0
	}
	pushSession(state, session)
	return 1
}

func (b *binding) serverShutdown(*lua.State) int {
	b.bridge.Shutdown(steamworks.KindServer)
	return 0
}

func queryNames(state *lua.State) int {
	names := steamworks.QueryNames()
	state.CreateTable(len(names), 0)
	for i, name := range names {
		state.PushString(name)
		state.RawSetInt(-2, i+1)
	}
	return 1
}

// checkUint reads an integral number in [0, max] or raises an argument error.
func checkUint(state *lua.State, index int, max uint64, name string) uint64 {
	n := lua.CheckNumber(state, index)
	if n != math.Trunc(n) || n < 0 || n > float64(max) {
		lua.ArgumentError(state, index, fmt.Sprintf("%s must be an integer in [0, %d]", name, max))
		return 0
	}
	return uint64(n)
}

// checkIP accepts a host-order number or a dotted IPv4 string.
func checkIP(state *lua.State, index int) uint32 {
	if state.TypeOf(index) != lua.TypeString {
		return uint32(checkUint(state, index, math.MaxUint32, "ip"))
	}
	raw, _ := state.ToString(index)
	ip, err := steamworks.ParseIPv4(raw)
	if err != nil {
		lua.ArgumentError(state, index, "ip must be an IPv4 address or a number")
		return 0
	}
	return ip
}

// lastErrorKey is the registry field holding the last bridge error raised
// into the state, so runners can return it with its code intact.
const lastErrorKey = "steambridge.last_error"

// raise turns a bridge error into a Lua error "<CODE>: <message>".
func raise(state *lua.State, err error) {
	state.PushUserData(err)
	state.SetField(lua.RegistryIndex, lastErrorKey)
	lua.Errorf(state, "%s: %s", string(apperrors.CodeOf(err)), err.Error())
}

// LastError returns the last bridge error raised into state, if any.
func LastError(state *lua.State) error {
	state.Field(lua.RegistryIndex, lastErrorKey)
	defer state.Pop(1)
	err, _ := state.ToUserData(-1).(error)
	return err
}
