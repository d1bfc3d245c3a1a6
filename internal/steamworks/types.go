package steamworks

import (
	"fmt"
	"strconv"
)

// Kind tags which vendor session a handle represents.
type Kind int

const (
	// KindClient is the process-level client session (SteamAPI_Init).
	KindClient Kind = iota
	// KindServer is the dedicated game-server session (SteamGameServer_Init).
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ServerMode is the vendor EServerMode authentication setting.
type ServerMode int32

const (
	ServerModeNoAuth        ServerMode = 1 // eServerModeNoAuthentication
	ServerModeAuth          ServerMode = 2 // eServerModeAuthentication
	ServerModeAuthAndSecure ServerMode = 3 // eServerModeAuthenticationAndSecure
)

// Valid reports whether m is one of the three modes the vendor accepts.
func (m ServerMode) Valid() bool {
	return m >= ServerModeNoAuth && m <= ServerModeAuthAndSecure
}

func (m ServerMode) String() string {
	switch m {
	case ServerModeNoAuth:
		return "no_auth"
	case ServerModeAuth:
		return "auth"
	case ServerModeAuthAndSecure:
		return "auth_and_secure"
	default:
		return fmt.Sprintf("server_mode(%d)", int32(m))
	}
}

// Universe is the vendor EUniverse network partition.
type Universe int32

const (
	UniverseInvalid  Universe = 0
	UniversePublic   Universe = 1
	UniverseBeta     Universe = 2
	UniverseInternal Universe = 3
	UniverseDev      Universe = 4
)

func (u Universe) String() string {
	switch u {
	case UniverseInvalid:
		return "invalid"
	case UniversePublic:
		return "public"
	case UniverseBeta:
		return "beta"
	case UniverseInternal:
		return "internal"
	case UniverseDev:
		return "dev"
	default:
		return fmt.Sprintf("universe(%d)", int32(u))
	}
}

// SteamID is a vendor 64-bit account identifier.
//
// Layout, low to high: 32-bit account id, 20-bit instance, 4-bit account type,
// 8-bit universe.
type SteamID uint64

// AccountID returns the low 32 bits.
func (id SteamID) AccountID() uint32 {
	return uint32(id)
}

// Instance returns the 20-bit instance field.
func (id SteamID) Instance() uint32 {
	return uint32(id>>32) & 0xFFFFF
}

// AccountType returns the 4-bit account type field.
func (id SteamID) AccountType() uint8 {
	return uint8(id>>52) & 0xF
}

// Universe returns the 8-bit universe field.
func (id SteamID) Universe() Universe {
	return Universe(uint8(id >> 56))
}

// String returns the decimal form used by the vendor web APIs.
func (id SteamID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

const (
	// AppIDEnvVar is the environment variable the vendor reads its app id from
	// during init.
	AppIDEnvVar = "SteamAppId"

	// QueryPortShared tells the vendor to share the game port for server
	// browser queries (STEAMGAMESERVER_QUERY_PORT_SHARED).
	QueryPortShared uint16 = 0xFFFF

	// DefaultVersionString is passed as the server version when none is
	// given. It matches STEAMGAMESERVER_INTERFACE_VERSION of the bound SDK.
	DefaultVersionString = "SteamGameServer015"

	DefaultProduct     = "steambridge"
	DefaultDescription = "steambridge server"
)

// ClientOptions configures Bridge.Init.
type ClientOptions struct {
	// AppID, when set, is published through SteamAppId for the duration of the
	// vendor init call. Without it the vendor falls back to steam_appid.txt.
	AppID *uint32
	// Strict additionally requires a logged-on user and a working input
	// subsystem before the session is handed out.
	Strict bool
}

// ServerOptions configures Bridge.ServerInit.
type ServerOptions struct {
	AppID       uint32
	IP          uint32 // host byte order, 0 binds all interfaces
	GamePort    uint16
	QueryPort   uint16
	Mode        ServerMode
	Version     string
	ModDir      string
	Product     string
	Description string
}

// DefaultServerOptions fills the optional fields with the vendor defaults.
func DefaultServerOptions(appID, ip uint32, gamePort uint16) ServerOptions {
	return ServerOptions{
		AppID:       appID,
		IP:          ip,
		GamePort:    gamePort,
		QueryPort:   QueryPortShared,
		Mode:        ServerModeNoAuth,
		Version:     DefaultVersionString,
		ModDir:      "",
		Product:     DefaultProduct,
		Description: DefaultDescription,
	}
}

// withDefaults fills empty strings. Mode is left alone so an explicit 0 is
// rejected by validation.
func (o ServerOptions) withDefaults() ServerOptions {
	if o.Version == "" {
		o.Version = DefaultVersionString
	}
	if o.Product == "" {
		o.Product = DefaultProduct
	}
	if o.Description == "" {
		o.Description = DefaultDescription
	}
	return o
}
