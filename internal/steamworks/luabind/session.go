package luabind

import (
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/louisbranch/steambridge/internal/steamworks"
)

func registerSessionType(state *lua.State, name string) {
	lua.NewMetaTable(state, name)
	state.NewTable()
	lua.SetFunctions(state, sessionMethods(), 0)
	state.SetField(-2, "__index")
	state.PushGoFunction(sessionString)
	state.SetField(-2, "__tostring")
	state.Pop(1)
}

func pushSession(state *lua.State, session *steamworks.Session) {
	state.PushUserData(session)
	if session.Kind() == steamworks.KindServer {
		lua.SetMetaTableNamed(state, serverTypeName)
		return
	}
	lua.SetMetaTableNamed(state, clientTypeName)
}

func checkSession(state *lua.State) *steamworks.Session {
	for _, name := range []string{clientTypeName, serverTypeName} {
		if session, ok := lua.TestUserData(state, 1, name).(*steamworks.Session); ok && session != nil {
			return session
		}
	}
	lua.ArgumentError(state, 1, "SteamAPI or SteamGameServer expected")
	return nil
}

// methodName maps a query name to its Lua method: predicates keep their
// is_ prefix, everything else gets get_.
func methodName(query string) string {
	if strings.HasPrefix(query, "is_") {
		return query
	}
	return "get_" + query
}

func sessionMethods() []lua.RegistryFunction {
	methods := []lua.RegistryFunction{
		{Name: "get_steamid", Function: sessionSteamID},
		{Name: "get_account_id", Function: sessionAccountID},
		{Name: "shutdown", Function: sessionShutdown},
		{Name: "run_callbacks", Function: sessionRunCallbacks},
		{Name: "is_active", Function: sessionIsActive},
		{Name: "kind", Function: sessionKind},
		{Name: "snapshot", Function: sessionSnapshot},
	}
	for _, name := range steamworks.QueryNames() {
		methods = append(methods, lua.RegistryFunction{Name: methodName(name), Function: queryMethod(name)})
	}
	return methods
}

func sessionSteamID(state *lua.State) int {
	id, err := checkSession(state).SteamID()
	if err != nil {
		raise(state, err)
		return 0
	}
	state.PushString(id.String())
	return 1
}

func sessionAccountID(state *lua.State) int {
	id, err := checkSession(state).SteamID()
	if err != nil {
		raise(state, err)
		return 0
	}
	state.PushInteger(int(id.AccountID()))
	return 1
}

func sessionShutdown(state *lua.State) int {
	checkSession(state).Shutdown()
	return 0
}

func sessionRunCallbacks(state *lua.State) int {
	if err := checkSession(state).RunCallbacks(); err != nil {
		raise(state, err)
	}
	return 0
}

func sessionIsActive(state *lua.State) int {
	state.PushBoolean(checkSession(state).Active())
	return 1
}

func sessionKind(state *lua.State) int {
	state.PushString(checkSession(state).Kind().String())
	return 1
}

func sessionString(state *lua.State) int {
	session := checkSession(state)
	status := "inactive"
	if session.Active() {
		status = "active"
	}
	state.PushString(session.Kind().String() + " session (" + status + ")")
	return 1
}

func queryMethod(name string) lua.Function {
	return func(state *lua.State) int {
		value, err := checkSession(state).Utils().Query(name)
		if err != nil {
			raise(state, err)
			return 0
		}
		pushValue(state, value)
		return 1
	}
}

func sessionSnapshot(state *lua.State) int {
	snapshot, err := checkSession(state).Utils().Snapshot()
	if err != nil {
		raise(state, err)
		return 0
	}
	state.CreateTable(0, len(snapshot))
	for _, name := range steamworks.QueryNames() {
		pushValue(state, snapshot[name])
		state.SetField(-2, name)
	}
	return 1
}

func pushValue(state *lua.State, value any) {
	switch v := value.(type) {
	case bool:
		state.PushBoolean(v)
	case string:
		state.PushString(v)
	case uint8:
		state.PushInteger(int(v))
	case int32:
		state.PushInteger(int(v))
	case uint32:
		state.PushInteger(int(v))
	default:
		state.PushNil()
	}
}
