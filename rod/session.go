package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of result pages before the browser
// is recycled.
const DefaultMaxPages = 50

// Session owns one browser process and recycles it after a number of pages,
// since Chrome memory keeps growing under sustained use. One Session is one
// browsing identity; parallel sessions need separate instances.
//
// Session is safe for concurrent use.
type Session struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	pageCount int64
	maxPages  int64
	proxy     string
	headless  bool
	mu        sync.Mutex
	closed    atomic.Bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMaxPages sets the number of pages before the browser is recycled.
func WithMaxPages(n int64) SessionOption {
	return func(s *Session) {
		s.maxPages = n
	}
}

// WithProxy routes browser traffic through proxy, e.g. "socks5://host:1080".
func WithProxy(proxy string) SessionOption {
	return func(s *Session) {
		s.proxy = proxy
	}
}

// WithHeadless controls whether the browser window is hidden. Default true.
func WithHeadless(headless bool) SessionOption {
	return func(s *Session) {
		s.headless = headless
	}
}

// NewSession launches a browser. Close must be called when the Session is
// no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewSession(opts ...SessionOption) (*Session, error) {
	s := &Session{
		maxPages: DefaultMaxPages,
		headless: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.launchBrowser(); err != nil {
		return nil, err
	}

	return s, nil
}

// Browser returns the current browser, recycling it first if the page count
// has reached the limit.
func (s *Session) Browser() *rod.Browser {
	s.mu.Lock()
	defer s.mu.Unlock()

	if atomic.LoadInt64(&s.pageCount) >= s.maxPages {
		s.recycleBrowser()
	}

	return s.browser
}

// IncrementPageCount records one processed page.
func (s *Session) IncrementPageCount() {
	atomic.AddInt64(&s.pageCount, 1)
}

// Close releases browser resources. Close is safe to call multiple times.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closeBrowser()
}

func (s *Session) launchBrowser() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("lang", "ru-RU").
		Leakless(true).
		Headless(s.headless)
	if s.proxy != "" {
		l = l.Proxy(s.proxy)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	s.browser = browser
	s.launcher = l
	return nil
}

// closeBrowser must be called with mu held.
func (s *Session) closeBrowser() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
	return err
}

// recycleBrowser keeps the old browser if a new one cannot be launched.
// Must be called with mu held.
func (s *Session) recycleBrowser() {
	oldBrowser, oldLauncher := s.browser, s.launcher
	s.browser, s.launcher = nil, nil

	if err := s.launchBrowser(); err != nil {
		s.browser, s.launcher = oldBrowser, oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	atomic.StoreInt64(&s.pageCount, 0)
}

// LauncherPID returns the process ID of the browser launcher, or 0.
func (s *Session) LauncherPID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.launcher == nil {
		return 0
	}
	return s.launcher.PID()
}
