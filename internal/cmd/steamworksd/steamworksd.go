// Package steamworksd owns one vendor session, pumps its callbacks and serves
// it over gRPC.
package steamworksd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"time"

	entrypoint "github.com/louisbranch/steambridge/internal/platform/cmd"
	"github.com/louisbranch/steambridge/internal/platform/timeouts"
	"github.com/louisbranch/steambridge/internal/steamworks"
	"github.com/louisbranch/steambridge/internal/steamworks/mainthread"
	"github.com/louisbranch/steambridge/internal/steamworks/rpc"
	"github.com/louisbranch/steambridge/internal/steamworks/vendor"
)

const (
	ModeClient = "client"
	ModeServer = "server"
)

// Config holds steamworksd command configuration.
type Config struct {
	Vendor vendor.Config

	Port int    `env:"PORT" envDefault:"8095"`
	Mode string `env:"MODE" envDefault:"client"`

	// AppID is published through SteamAppId during init. For client sessions
	// zero leaves the variable alone so steam_appid.txt applies.
	AppID  uint `env:"APP_ID"`
	Strict bool `env:"STRICT"`

	ServerIP    string `env:"SERVER_IP"`
	GamePort    uint   `env:"GAME_PORT" envDefault:"27015"`
	QueryPort   uint   `env:"QUERY_PORT" envDefault:"65535"`
	ServerMode  int    `env:"SERVER_MODE" envDefault:"1"`
	Version     string `env:"SERVER_VERSION" envDefault:"SteamGameServer015"`
	ModDir      string `env:"SERVER_MOD_DIR"`
	Product     string `env:"SERVER_PRODUCT" envDefault:"steambridge"`
	Description string `env:"SERVER_DESCRIPTION" envDefault:"steambridge server"`

	CallbackInterval time.Duration `env:"CALLBACK_INTERVAL" envDefault:"100ms"`
	Verbose          bool          `env:"VERBOSE"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Vendor.SDKDir, "sdk-dir", cfg.Vendor.SDKDir, "Steamworks SDK root holding redist/")
	fs.StringVar(&cfg.Vendor.Library, "library", cfg.Vendor.Library, "explicit path to the steam_api library")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "the bridge gRPC server port")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "session kind: client or server")
	fs.UintVar(&cfg.AppID, "app-id", cfg.AppID, "app id published through SteamAppId during init")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "require a logged-on user and input for client sessions")
	fs.StringVar(&cfg.ServerIP, "server-ip", cfg.ServerIP, "IPv4 address the game server binds, empty for all")
	fs.UintVar(&cfg.GamePort, "game-port", cfg.GamePort, "game server port")
	fs.UintVar(&cfg.QueryPort, "query-port", cfg.QueryPort, "server browser query port, 65535 shares the game port")
	fs.IntVar(&cfg.ServerMode, "server-mode", cfg.ServerMode, "1 no auth, 2 auth, 3 auth and secure")
	fs.DurationVar(&cfg.CallbackInterval, "callback-interval", cfg.CallbackInterval, "vendor callback pump interval")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Mode != ModeClient && c.Mode != ModeServer {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeClient, ModeServer, c.Mode)
	}
	if c.AppID > math.MaxUint32 {
		return fmt.Errorf("app id %d out of range", c.AppID)
	}
	if c.GamePort > math.MaxUint16 || c.QueryPort > math.MaxUint16 {
		return fmt.Errorf("ports must be at most %d", math.MaxUint16)
	}
	if _, err := steamworks.ParseIPv4(c.ServerIP); err != nil {
		return err
	}
	return nil
}

func (c Config) kind() steamworks.Kind {
	if c.Mode == ModeServer {
		return steamworks.KindServer
	}
	return steamworks.KindClient
}

func (c Config) serverOptions() steamworks.ServerOptions {
	ip, _ := steamworks.ParseIPv4(c.ServerIP)
	return steamworks.ServerOptions{
		AppID:       uint32(c.AppID),
		IP:          ip,
		GamePort:    uint16(c.GamePort),
		QueryPort:   uint16(c.QueryPort),
		Mode:        steamworks.ServerMode(c.ServerMode),
		Version:     c.Version,
		ModDir:      c.ModDir,
		Product:     c.Product,
		Description: c.Description,
	}
}

func (c Config) clientOptions() steamworks.ClientOptions {
	opts := steamworks.ClientOptions{Strict: c.Strict}
	if c.AppID != 0 {
		appID := uint32(c.AppID)
		opts.AppID = &appID
	}
	return opts
}

type vendorAPI interface {
	steamworks.API
	Close() error
}

var openVendor = func(cfg vendor.Config) (vendorAPI, error) {
	return vendor.Open(cfg)
}

// Run loads the vendor library and serves the session until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDaemon, func(ctx context.Context) error {
		api, err := openVendor(cfg.Vendor)
		if err != nil {
			return err
		}
		defer func() {
			if err := api.Close(); err != nil {
				log.Printf("close vendor library: %v", err)
			}
		}()
		return serve(ctx, cfg, api, fmt.Sprintf(":%d", cfg.Port), nil)
	})
}

// serve runs the daemon over api. onListen, when set, receives the bound
// address once the gRPC listener is up.
func serve(ctx context.Context, cfg Config, api steamworks.API, addr string, onListen func(string)) error {
	sessionLogger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		sessionLogger = log.Default()
	}
	bridge, err := steamworks.New(api, steamworks.Config{Logger: sessionLogger})
	if err != nil {
		return err
	}

	execCtx, stopExec := context.WithCancel(context.Background())
	exec := mainthread.New()
	go exec.Run(execCtx)
	defer func() {
		stopExec()
		<-exec.Stopped()
	}()

	var session *steamworks.Session
	var initErr error
	if err := exec.Do(ctx, func() {
		if cfg.kind() == steamworks.KindServer {
			session, initErr = bridge.ServerInit(ctx, cfg.serverOptions())
			return
		}
		session, initErr = bridge.Init(ctx, cfg.clientOptions())
	}); err != nil {
		return err
	}
	if initErr != nil {
		return fmt.Errorf("init %s session: %w", cfg.kind(), initErr)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.SessionShutdown)
		defer cancel()
		if err := exec.Do(shutdownCtx, session.Shutdown); err != nil {
			log.Printf("shutdown %s session: %v", cfg.kind(), err)
		}
	}()
	log.Printf("%s session ready", cfg.kind())

	server, err := rpc.NewServer(addr, rpc.NewService(bridge, cfg.kind(), exec))
	if err != nil {
		return err
	}
	if onListen != nil {
		onListen(server.Addr())
	}

	pumpCtx, stopPump := context.WithCancel(ctx)
	defer stopPump()
	interval := cfg.CallbackInterval
	if interval <= 0 {
		interval = timeouts.CallbackPump
	}
	go pumpCallbacks(pumpCtx, exec, session, interval, cfg.Verbose)

	return server.Serve(ctx)
}

// pumpCallbacks dispatches vendor callbacks on the session thread until ctx
// ends.
func pumpCallbacks(ctx context.Context, exec rpc.Runner, session *steamworks.Session, interval time.Duration, verbose bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var cbErr error
			if err := exec.Do(ctx, func() { cbErr = session.RunCallbacks() }); err != nil {
				return
			}
			if cbErr != nil && verbose {
				log.Printf("run callbacks: %v", cbErr)
			}
		}
	}
}
