package steamworks

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	apperrors "github.com/louisbranch/steambridge/internal/platform/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/steambridge/internal/steamworks"

// Config holds optional Bridge collaborators.
type Config struct {
	// Logger receives session lifecycle messages. Defaults to discarding them.
	Logger *log.Logger
	// Environ publishes SteamAppId. Defaults to the API itself when it
	// implements Environ (the vendor loader also updates the C environment),
	// otherwise OSEnviron.
	Environ Environ
	// Tracer records spans around vendor init and shutdown. Defaults to the
	// global provider's tracer.
	Tracer trace.Tracer
}

// Bridge owns the vendor surface and the process-wide session table.
type Bridge struct {
	api    API
	env    Environ
	logger *log.Logger
	tracer trace.Tracer

	mu       sync.Mutex
	sessions map[Kind]*Session
}

// New creates a Bridge over the vendor API.
func New(api API, cfg Config) (*Bridge, error) {
	if api == nil {
		return nil, errors.New("vendor api is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	env := cfg.Environ
	if env == nil {
		if apiEnv, ok := api.(Environ); ok {
			env = apiEnv
		} else {
			env = OSEnviron{}
		}
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Bridge{
		api:      api,
		env:      env,
		logger:   logger,
		tracer:   tracer,
		sessions: map[Kind]*Session{},
	}, nil
}

// IsSteamRunning reports whether the platform client is reachable. It has no
// side effects and may be called at any time.
func (b *Bridge) IsSteamRunning() bool {
	return b.api.IsSteamRunning()
}

// RestartAppIfNecessary asks the vendor whether the process should exit and be
// relaunched through the platform client for appID.
func (b *Bridge) RestartAppIfNecessary(appID uint32) bool {
	return b.api.RestartAppIfNecessary(appID)
}

// Session returns the active session of the given kind, if any.
func (b *Bridge) Session(kind Kind) (*Session, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	session, ok := b.sessions[kind]
	return session, ok
}

// ActiveSession returns the active session of the given kind or a
// NOT_INITIALIZED error.
func (b *Bridge) ActiveSession(kind Kind) (*Session, error) {
	if session, ok := b.Session(kind); ok {
		return session, nil
	}
	return nil, notInitialized(kind)
}

// Init establishes the process-wide client session.
func (b *Bridge) Init(ctx context.Context, opts ClientOptions) (*Session, error) {
	_, span := b.tracer.Start(ctx, "steamworks.Init", trace.WithAttributes(
		attribute.String("steamworks.kind", KindClient.String()),
		attribute.Bool("steamworks.strict", opts.Strict),
	))
	defer span.End()

	session, err := b.initClient(opts)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return session, nil
}

func (b *Bridge) initClient(opts ClientOptions) (*Session, error) {
	if !b.api.IsSteamRunning() {
		return nil, notRunning(KindClient)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sessions[KindClient]; ok {
		return nil, kindError(apperrors.CodeAlreadyInitialized, KindClient, "session is already initialized")
	}

	var started bool
	vendorInit := func() error {
		if !b.api.Init() {
			return initFailed(KindClient, "vendor returned false")
		}
		started = true
		return nil
	}
	var err error
	if opts.AppID != nil {
		err = withAppID(b.env, *opts.AppID, vendorInit)
	} else {
		err = vendorInit()
	}
	if err == nil {
		err = b.checkClient(opts)
	}
	if err != nil {
		if started {
			b.api.Shutdown()
		}
		return nil, err
	}

	session := &Session{
		bridge: b,
		kind:   KindClient,
		iface:  b.api.User(),
		utils:  b.api.Utils(),
		active: true,
	}
	b.sessions[KindClient] = session
	b.logger.Printf("steamworks: client session initialized")
	return session, nil
}

// checkClient runs after a successful vendor init.
func (b *Bridge) checkClient(opts ClientOptions) error {
	user := b.api.User()
	if user == 0 {
		return initFailed(KindClient, "user interface is not populated")
	}
	if b.api.Utils() == 0 {
		return initFailed(KindClient, "utils interface is not populated")
	}
	if !opts.Strict {
		return nil
	}
	if !b.api.UserLoggedOn(user) {
		return kindError(apperrors.CodeNotLoggedOn, KindClient, "init: user is not logged on")
	}
	input := b.api.Input()
	if input == 0 || !b.api.InputInit(input, false) {
		return kindError(apperrors.CodeInputInitFailed, KindClient, "init: input subsystem failed to initialize")
	}
	return nil
}

// ServerInit establishes the dedicated game-server session.
//
// The order is fixed: probe the platform client, publish SteamAppId, call the
// vendor server init, describe the server and request an anonymous logon.
// SteamAppId is cleared before ServerInit returns, on success and failure.
func (b *Bridge) ServerInit(ctx context.Context, opts ServerOptions) (*Session, error) {
	opts = opts.withDefaults()
	_, span := b.tracer.Start(ctx, "steamworks.ServerInit", trace.WithAttributes(
		attribute.String("steamworks.kind", KindServer.String()),
		attribute.Int64("steamworks.app_id", int64(opts.AppID)),
		attribute.Int("steamworks.game_port", int(opts.GamePort)),
		attribute.Int("steamworks.query_port", int(opts.QueryPort)),
		attribute.String("steamworks.server_mode", opts.Mode.String()),
	))
	defer span.End()

	session, err := b.initServer(opts)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return session, nil
}

func (b *Bridge) initServer(opts ServerOptions) (*Session, error) {
	if !b.api.IsSteamRunning() {
		return nil, notRunning(KindServer)
	}
	if !opts.Mode.Valid() {
		return nil, invalidServerMode(opts.Mode)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sessions[KindServer]; ok {
		return nil, kindError(apperrors.CodeAlreadyInitialized, KindServer, "session is already initialized")
	}

	var session *Session
	err := withAppID(b.env, opts.AppID, func() error {
		if !b.api.GameServerInit(opts.IP, opts.GamePort, opts.QueryPort, int32(opts.Mode), opts.Version) {
			return initFailed(KindServer, "vendor returned false")
		}
		session = &Session{bridge: b, kind: KindServer}
		server := b.api.GameServer()
		if server == 0 {
			return initFailed(KindServer, "game server interface is not populated")
		}
		utils := b.api.GameServerUtils()
		if utils == 0 {
			return initFailed(KindServer, "game server utils interface is not populated")
		}
		b.api.GameServerSetModDir(server, opts.ModDir)
		b.api.GameServerSetProduct(server, opts.Product)
		b.api.GameServerSetGameDescription(server, opts.Description)
		b.api.GameServerLogOnAnonymous(server)
		session.iface = server
		session.utils = utils
		return nil
	})
	if err != nil {
		if session != nil {
			b.api.GameServerShutdown()
		}
		return nil, err
	}

	session.active = true
	b.sessions[KindServer] = session
	b.logger.Printf("steamworks: server session initialized (app %d, game port %d, query port %d, mode %s)",
		opts.AppID, opts.GamePort, opts.QueryPort, opts.Mode)
	return session, nil
}

// Shutdown releases the active session of the given kind. Without an active
// session it does nothing and makes no vendor call.
func (b *Bridge) Shutdown(kind Kind) {
	b.mu.Lock()
	session := b.sessions[kind]
	b.mu.Unlock()
	if session == nil {
		b.logger.Printf("steamworks: %s shutdown without active session", kind)
		return
	}
	session.Shutdown()
}

// ShutdownAll releases every active session, server first.
func (b *Bridge) ShutdownAll() {
	b.Shutdown(KindServer)
	b.Shutdown(KindClient)
}

// release must be called with b.mu held.
func (b *Bridge) release(session *Session) {
	if !session.active {
		return
	}
	_, span := b.tracer.Start(context.Background(), "steamworks.Shutdown", trace.WithAttributes(
		attribute.String("steamworks.kind", session.kind.String()),
	))
	defer span.End()

	switch session.kind {
	case KindServer:
		b.api.GameServerShutdown()
	default:
		b.api.Shutdown()
	}
	session.active = false
	session.iface = 0
	session.utils = 0
	if b.sessions[session.kind] == session {
		delete(b.sessions, session.kind)
	}
	b.logger.Printf("steamworks: %s session shut down", session.kind)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
}
