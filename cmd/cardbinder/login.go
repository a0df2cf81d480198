package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardbinder/cardbinder/internal/browser"
	"github.com/cardbinder/cardbinder/internal/cache"
	"github.com/cardbinder/cardbinder/internal/config"
	"github.com/cardbinder/cardbinder/pkg/client"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate in the browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runLogin(cmd.Context(), cfg.APIURL)
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear your session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout()
		},
	}
}

func runLogin(ctx context.Context, apiURL string) error {
	// Ephemeral localhost server on a random port receives the callback.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("start callback listener: %w", err)
	}
	defer listener.Close() //nolint:errcheck

	port := listener.Addr().(*net.TCPAddr).Port
	tokenCh := make(chan string, 1)
	errCh := make(chan error, 1)

	// CSRF state token ties the callback to this process.
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return fmt.Errorf("generate oauth state: %w", err)
	}
	expectedState := hex.EncodeToString(stateBytes)

	exchanger := client.New(apiURL, "")

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != expectedState {
			http.Error(w, "invalid state", http.StatusForbidden)
			errCh <- fmt.Errorf("callback state mismatch (possible CSRF)")
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			errCh <- fmt.Errorf("callback received without code")
			return
		}
		tok, err := exchanger.ExchangeCode(r.Context(), code)
		if err != nil {
			http.Error(w, "exchange failed", http.StatusInternalServerError)
			errCh <- err
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, callbackHTML) //nolint:errcheck
		tokenCh <- tok
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if srvErr := srv.Serve(listener); srvErr != nil && srvErr != http.ErrServerClosed {
			errCh <- srvErr
		}
	}()

	// The login page lives on the site host (cardbinder.app), not the API
	// host (api.cardbinder.app).
	baseURL := os.Getenv("CARDBINDER_BASE_URL")
	if baseURL == "" {
		u, parseErr := url.Parse(apiURL)
		if parseErr != nil {
			return fmt.Errorf("parse api url: %w", parseErr)
		}
		host := u.Hostname()
		if strings.HasPrefix(host, "api.") {
			u.Host = strings.TrimPrefix(host, "api.")
			if u.Port() != "" {
				u.Host += ":" + u.Port()
			}
		}
		baseURL = u.String()
	}
	loginParams := url.Values{}
	loginParams.Set("cli_port", strconv.Itoa(port))
	loginParams.Set("state", expectedState)
	loginURL := baseURL + "/auth/login?" + loginParams.Encode()

	fmt.Printf("Opening browser to authenticate...\n")
	if err := browser.Open(loginURL); err != nil {
		fmt.Printf("Could not open browser. Visit this URL manually:\n  %s\n", loginURL)
	}

	select {
	case tok := <-tokenCh:
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx) //nolint:errcheck

		if err := saveToken(tok); err != nil {
			return err
		}

		c := client.New(apiURL, tok)
		me, err := c.GetMe(ctx)
		if err != nil {
			fmt.Printf("Token saved but verification failed: %v\n", err)
			return nil
		}
		fmt.Printf("Signed in as %s\n\n", me.Name())

		return runTUI(ctx)

	case srvErr := <-errCh:
		return fmt.Errorf("callback server error: %w", srvErr)

	case <-time.After(2 * time.Minute):
		return fmt.Errorf("login timed out — no callback received within 2 minutes")
	}
}

func runLogout() error {
	clearLocalState()

	tokPath, err := tokenFilePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(tokPath); os.IsNotExist(err) {
		fmt.Println("Already logged out.")
		return nil
	}
	if err := os.Remove(tokPath); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

// clearLocalState drops the cached snapshot and profile. The remote
// document is untouched; the next login gets it back.
func clearLocalState() {
	dir, err := cache.DefaultDir()
	if err != nil {
		return
	}
	store, err := cache.Open(dir)
	if err != nil {
		return
	}
	if u, err := store.LoadProfile(); err == nil {
		store.Delete(u.ID) //nolint:errcheck
	}
	store.DeleteProfile() //nolint:errcheck
}

const callbackHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>cardbinder</title>
<style>
*{margin:0;padding:0;box-sizing:border-box}
body{
  background:#0c0a09;color:#e7e5e4;
  font-family:'SF Mono','Consolas',monospace;
  height:100vh;display:flex;align-items:center;justify-content:center;
  overflow:hidden;
}
.card{text-align:center}
.logo{
  font-size:28px;font-weight:700;letter-spacing:10px;
  text-transform:uppercase;margin-bottom:24px;
}
.logo span{display:inline-block;animation:shimmer 3s ease-in-out infinite}
.logo span:nth-child(odd){color:#fb923c}
.logo span:nth-child(even){color:#f59e0b}
@keyframes shimmer{
  0%,100%{opacity:.6;transform:translateY(0)}
  50%{opacity:1;transform:translateY(-2px)}
}
.check{
  width:48px;height:48px;margin:0 auto 20px;
  border:2px solid #4ade80;border-radius:50%;
  display:flex;align-items:center;justify-content:center;
  animation:pop .4s cubic-bezier(.175,.885,.32,1.275) forwards;
  opacity:0;
}
@keyframes pop{
  0%{opacity:0;transform:scale(0)}
  100%{opacity:1;transform:scale(1)}
}
.check svg{width:24px;height:24px}
.msg{
  font-size:14px;color:#4ade80;font-weight:600;
  margin-bottom:8px;
  animation:fadein .6s .3s forwards;opacity:0;
}
.sub{
  font-size:12px;color:#57534e;
  animation:fadein .6s .5s forwards;opacity:0;
}
@keyframes fadein{0%{opacity:0;transform:translateY(4px)}100%{opacity:1;transform:translateY(0)}}
</style>
</head>
<body>
<div class="card">
  <div class="logo">
    <span>C</span><span>A</span><span>R</span><span>D</span><span>B</span><span>I</span><span>N</span><span>D</span><span>E</span><span>R</span>
  </div>
  <div class="check">
    <svg viewBox="0 0 24 24" fill="none" stroke="#4ade80" stroke-width="2.5" stroke-linecap="round" stroke-linejoin="round">
      <polyline points="20 6 9 17 4 12"/>
    </svg>
  </div>
  <div class="msg">signed in</div>
  <div class="sub">return to your terminal</div>
</div>
</body>
</html>`
