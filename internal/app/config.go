package app

import (
	"net/http"
	"time"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string       // data directory, e.g. $HOME/.sealchat
	RelayURL string       // relay base URL, e.g. http://127.0.0.1:8080
	HTTP     *http.Client // optional; defaults to http.DefaultClient

	// Poll intervals; zero values fall back to scheduler defaults.
	ForegroundInterval time.Duration
	BackgroundInterval time.Duration
}
