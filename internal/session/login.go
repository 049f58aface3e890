package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"consultation-triage/pkg/browser"
	pkgLog "consultation-triage/pkg/log"
)

// Overlay dismiss buttons shown to first-time visitors; clicked through
// until none remain.
var overlaySelectors = []string{
	`xpath=//input[@id="valueForm1" and @type="button"]`,
	`xpath=//input[@value="Close This" and @type="button"]`,
	`xpath=//form[starts-with(@id,"valueForm")]//input[@type="button"]`,
	`xpath=//form[@id="f"]//input[@type="button"]`,
}

// Manager owns the login and state-restore flow for one browser session.
type Manager struct {
	session browser.Session
	store   *StateStore
	l       pkgLog.Logger
	baseURL string
	envPath string
	timeout time.Duration
}

func NewManager(session browser.Session, store *StateStore, l pkgLog.Logger, baseURL, envPath string, timeout time.Duration) *Manager {
	return &Manager{
		session: session,
		store:   store,
		l:       l,
		baseURL: strings.TrimRight(baseURL, "/"),
		envPath: envPath,
		timeout: timeout,
	}
}

// Bootstrap restores a stored session or logs in with credentials. Any
// failure here is fatal for the run: no task may be processed without an
// authenticated session.
func (m *Manager) Bootstrap(ctx context.Context) error {
	if exporter, ok := m.session.(browser.StateExporter); ok && m.store.Exists() {
		raw, err := m.store.Snapshot()
		if err == nil && raw != "" {
			if err := exporter.ImportState(raw); err != nil {
				m.l.Warnf(ctx, "could not import stored session state: %v", err)
			}
		}
	}

	if err := m.session.Navigate(ctx, m.baseURL+"/"); err != nil {
		return fmt.Errorf("%w: %v", ErrSetupFailed, err)
	}
	if !strings.Contains(m.session.CurrentURL(), "login.php") {
		m.l.Info(ctx, "session restored from stored state")
		m.clearOverlays(ctx)
		return nil
	}

	creds, err := LoadCredentials(m.envPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSetupFailed, err)
	}

	if err := m.login(ctx, creds); err != nil {
		return fmt.Errorf("%w: %v", ErrSetupFailed, err)
	}
	m.clearOverlays(ctx)

	if exporter, ok := m.session.(browser.StateExporter); ok {
		raw, err := exporter.ExportState()
		if err == nil {
			if err := m.store.Save(raw); err != nil {
				m.l.Warnf(ctx, "could not persist session state: %v", err)
			}
		}
	}
	m.l.Info(ctx, "logged in via credentials")
	return nil
}

func (m *Manager) login(ctx context.Context, creds Credentials) error {
	if err := m.session.Navigate(ctx, m.baseURL+"/system/login.php"); err != nil {
		return err
	}

	user, err := m.session.WaitFor(ctx, "input[name='username']", m.timeout)
	if err != nil {
		return err
	}
	if err := user.Fill(creds.Username); err != nil {
		return err
	}
	pass, err := m.session.Locate("input[name='password']")
	if err != nil {
		return err
	}
	if err := pass.Fill(creds.Password); err != nil {
		return err
	}
	submit, err := m.session.Locate("#login")
	if err != nil {
		return err
	}
	if err := submit.Click(); err != nil {
		return err
	}

	// The main frame appearing is the signal that login landed.
	_, err = m.session.WaitFor(ctx, "iframe#MainView", m.timeout)
	return err
}

// clearOverlays clicks through first-time popups until no more appear.
// A timeout per selector just means that popup is gone.
func (m *Manager) clearOverlays(ctx context.Context) {
	for _, sel := range overlaySelectors {
		for {
			btn, err := m.session.WaitFor(ctx, sel, 500*time.Millisecond)
			if err != nil {
				break
			}
			if err := btn.Click(); err != nil {
				break
			}
		}
	}
}
