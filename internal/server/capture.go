package server

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// maxFragmentSize bounds the capture request body; redirect fragments are a
// few hundred bytes.
const maxFragmentSize = 8 << 10

// FragmentResult contains the outcome of the redirect-capture flow.
type FragmentResult struct {
	Fragment string
	err      error
}

func (f *FragmentResult) Error() error {
	return f.err
}

// CaptureHandler serves the implicit-grant callback page and receives the
// forwarded location fragment. Only the first capture is processed.
type CaptureHandler struct {
	resultChan chan FragmentResult
	once       sync.Once
	mu         sync.Mutex
	captureHit bool
}

// NewCaptureHandler creates a handler ready to receive one redirect.
func NewCaptureHandler() *CaptureHandler {
	return &CaptureHandler{
		resultChan: make(chan FragmentResult, 1),
	}
}

// Router builds the callback server's routes.
func (h *CaptureHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/callback", h.ServeCallback)
	r.Post("/capture", h.ServeCapture)
	return r
}

// ServeCallback renders the page the provider redirects to. Its script
// reads the location fragment, clears it so the credential never lands in
// browser history or referrers, and posts it to /capture.
func (h *CaptureHandler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, callbackPage)
}

// ServeCapture receives the raw fragment and sends it through the result
// channel (only once).
func (h *CaptureHandler) ServeCapture(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.captureHit {
		h.mu.Unlock()
		http.Error(w, "Capture already processed", http.StatusBadRequest)
		return
	}
	h.captureHit = true
	h.mu.Unlock()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxFragmentSize))
	if err != nil {
		h.Send(FragmentResult{err: fmt.Errorf("failed to read fragment: %w", err)})
		http.Error(w, "Failed to read fragment", http.StatusBadRequest)
		return
	}

	h.Send(FragmentResult{Fragment: string(body)})
	w.WriteHeader(http.StatusNoContent)
}

// Send sends the capture result through the channel (only once).
func (h *CaptureHandler) Send(result FragmentResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *CaptureHandler) Result() <-chan FragmentResult {
	return h.resultChan
}

const callbackPage = `<!DOCTYPE html>
<html>
<head>
    <title>Login Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#10003; Login Successful</h1>
        <p id="status">Handing the credential to musicmuse&hellip;</p>
    </div>
    <script>
        (function () {
            var fragment = window.location.hash.substring(1);
            window.history.replaceState(null, "", window.location.pathname);
            fetch("/capture", { method: "POST", body: fragment }).then(function () {
                document.getElementById("status").textContent =
                    "You can close this window and return to the terminal.";
            }).catch(function () {
                document.getElementById("status").textContent =
                    "Could not reach the app. Is it still running?";
            });
        })();
    </script>
</body>
</html>
`
