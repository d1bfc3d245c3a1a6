package luabind

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/louisbranch/steambridge/internal/steamworks"
)

// RunConfig configures a script run.
type RunConfig struct {
	// Logger receives run diagnostics. Defaults to discarding them.
	Logger *log.Logger
	// Args are exposed to the script as the global table arg, 1-based.
	Args []string
}

// RunFile executes the script at path with the bridge loaded. Sessions the
// script leaves open are shut down before RunFile returns.
func RunFile(ctx context.Context, cfg RunConfig, bridge *steamworks.Bridge, path string) error {
	state := newState(ctx, cfg, bridge)
	defer closeSessions(cfg, bridge)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return fmt.Errorf("load lua: %w", scriptError(state, err))
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		return fmt.Errorf("run lua: %w", scriptError(state, err))
	}
	return nil
}

// RunString executes source the way RunFile executes a file.
func RunString(ctx context.Context, cfg RunConfig, bridge *steamworks.Bridge, source string) error {
	state := newState(ctx, cfg, bridge)
	defer closeSessions(cfg, bridge)

	if err := lua.DoString(state, source); err != nil {
		return fmt.Errorf("run lua: %w", scriptError(state, err))
	}
	return nil
}

func newState(ctx context.Context, cfg RunConfig, bridge *steamworks.Bridge) *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	OpenContext(ctx, state, bridge)

	state.CreateTable(len(cfg.Args), 0)
	for i, arg := range cfg.Args {
		state.PushString(arg)
		state.RawSetInt(-2, i+1)
	}
	state.SetGlobal("arg")
	return state
}

func closeSessions(cfg RunConfig, bridge *steamworks.Bridge) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	for _, kind := range []steamworks.Kind{steamworks.KindServer, steamworks.KindClient} {
		if session, ok := bridge.Session(kind); ok {
			logger.Printf("script left %s session open; shutting down", kind)
			session.Shutdown()
		}
	}
}

// scriptError attaches the error value left on the stack when err does not
// already carry it. When the script died on a bridge error, that error is
// wrapped too so its code survives the Lua boundary.
func scriptError(state *lua.State, err error) error {
	msg, ok := state.ToString(-1)
	if ok && msg != "" && !strings.Contains(err.Error(), msg) {
		err = fmt.Errorf("%w: %s", err, msg)
	}
	if raised := LastError(state); raised != nil && strings.Contains(err.Error(), raised.Error()) {
		return &ScriptError{Err: err, Cause: raised}
	}
	return err
}

// ScriptError is a script failure caused by a bridge error.
type ScriptError struct {
	Err   error
	Cause error
}

func (e *ScriptError) Error() string { return e.Err.Error() }

// Unwrap returns both the Lua failure and the bridge error.
func (e *ScriptError) Unwrap() []error { return []error{e.Cause, e.Err} }
