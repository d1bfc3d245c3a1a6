package steamworks

// Session is the capability handed out by a successful Init or ServerInit.
// After Shutdown every query on it fails with a NOT_INITIALIZED error.
type Session struct {
	bridge *Bridge
	kind   Kind
	iface  uintptr // ISteamUser for clients, ISteamGameServer for servers
	utils  uintptr
	active bool
}

// Kind reports which vendor session the handle represents.
func (s *Session) Kind() Kind {
	return s.kind
}

// Active reports whether the handle is still usable.
func (s *Session) Active() bool {
	if s == nil || s.bridge == nil {
		return false
	}
	s.bridge.mu.Lock()
	defer s.bridge.mu.Unlock()
	return s.active
}

// SteamID returns the logged-in user id for client sessions and the server's
// own id for server sessions.
func (s *Session) SteamID() (SteamID, error) {
	var id uint64
	err := s.with(func(api API) {
		if s.kind == KindServer {
			id = api.GameServerSteamID(s.iface)
			return
		}
		id = api.UserSteamID(s.iface)
	})
	return SteamID(id), err
}

// RunCallbacks dispatches queued vendor callbacks for this session. It must be
// called from the thread that initialized the session.
func (s *Session) RunCallbacks() error {
	return s.with(func(api API) {
		if s.kind == KindServer {
			api.GameServerRunCallbacks()
			return
		}
		api.RunCallbacks()
	})
}

// Utils returns the utility query set bound to this session.
func (s *Session) Utils() *Utils {
	return &Utils{session: s}
}

// Shutdown releases the vendor session. Repeated calls are no-ops.
func (s *Session) Shutdown() {
	if s == nil || s.bridge == nil {
		return
	}
	s.bridge.mu.Lock()
	defer s.bridge.mu.Unlock()
	s.bridge.release(s)
}

// with runs fn against the vendor API while the session is held active.
func (s *Session) with(fn func(api API)) error {
	if s == nil || s.bridge == nil {
		return errNoSession
	}
	s.bridge.mu.Lock()
	defer s.bridge.mu.Unlock()
	if !s.active {
		return notInitialized(s.kind)
	}
	fn(s.bridge.api)
	return nil
}
