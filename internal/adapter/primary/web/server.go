package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"audioctl/internal/domain"
	"audioctl/internal/logging"
	"audioctl/internal/usecase"
)

// Server is a primary adapter that exposes the HTTP API and a status page.
type Server struct {
	audio    usecase.AudioUseCase
	enforcer usecase.EnforcerUseCase
	server   *http.Server
}

// NewServer creates the HTTP server bound to addr.
func NewServer(audio usecase.AudioUseCase, enforcer usecase.EnforcerUseCase, addr string) *Server {
	srv := &Server{audio: audio, enforcer: enforcer}
	srv.server = &http.Server{
		Addr:              addr,
		Handler:           loggingMiddleware(srv.routes()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/backend", s.handleBackend)
	mux.HandleFunc("GET /api/devices/{device}", s.handleDeviceGet)
	mux.HandleFunc("PUT /api/devices/{device}", s.handleDevicePut)
	mux.HandleFunc("GET /api/enforce", s.handleEnforceGet)
	mux.HandleFunc("PUT /api/enforce", s.handleEnforcePut)
	mux.HandleFunc("POST /api/enforce/apply", s.handleEnforceApply)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	return mux
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func (s *Server) handleBackend(w http.ResponseWriter, r *http.Request) {
	info := s.audio.Backend()
	respondJSON(w, http.StatusOK, map[string]string{
		"platform": info.Platform,
		"backend":  info.Selection.Kind.String(),
		"source":   info.Selection.Source,
	})
}

func (s *Server) device(w http.ResponseWriter, r *http.Request) (domain.Device, bool) {
	d, err := domain.ParseDevice(r.PathValue("device"))
	if err != nil {
		respondError(w, err)
		return 0, false
	}
	return d, true
}

func (s *Server) handleDeviceGet(w http.ResponseWriter, r *http.Request) {
	d, ok := s.device(w, r)
	if !ok {
		return
	}
	st, err := s.audio.Status(r.Context(), d)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statusView(st))
}

type devicePayload struct {
	Volume *float64 `json:"volume"`
	Muted  *bool    `json:"muted"`
}

func (s *Server) handleDevicePut(w http.ResponseWriter, r *http.Request) {
	d, ok := s.device(w, r)
	if !ok {
		return
	}
	var req devicePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if req.Volume != nil {
		if err := s.audio.Set(ctx, d, *req.Volume); err != nil {
			respondError(w, err)
			return
		}
	}
	if req.Muted != nil {
		var err error
		if *req.Muted {
			err = s.audio.Mute(ctx, d)
		} else {
			err = s.audio.Unmute(ctx, d)
		}
		if err != nil {
			respondError(w, err)
			return
		}
	}

	st, err := s.audio.Status(ctx, d)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statusView(st))
}

func (s *Server) handleEnforceGet(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, snapshotToView(s.enforcer.GetSnapshot()))
}

type enforcePayload struct {
	Device          *string  `json:"device"`
	TargetVolume    *int     `json:"targetVolume"`
	IntervalSeconds *float64 `json:"intervalSeconds"`
	Enabled         *bool    `json:"enabled"`
	KeepUnmuted     *bool    `json:"keepUnmuted"`
	ApplyNow        bool     `json:"applyNow"`
}

func (s *Server) handleEnforcePut(w http.ResponseWriter, r *http.Request) {
	var req enforcePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	config := s.enforcer.GetSnapshot().Config
	if req.Device != nil {
		d, err := domain.ParseDevice(*req.Device)
		if err != nil {
			respondError(w, err)
			return
		}
		config.Device = d
	}
	if req.TargetVolume != nil {
		config.TargetVolume = *req.TargetVolume
	}
	if req.IntervalSeconds != nil {
		config.Interval = time.Duration(*req.IntervalSeconds * float64(time.Second))
	}
	if req.Enabled != nil {
		config.Enabled = *req.Enabled
	}
	if req.KeepUnmuted != nil {
		config.KeepUnmuted = *req.KeepUnmuted
	}

	if err := s.enforcer.UpdateConfig(r.Context(), config, req.ApplyNow); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshotToView(s.enforcer.GetSnapshot()))
}

func (s *Server) handleEnforceApply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Volume *int `json:"volume"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
	}
	volume := -1
	if req.Volume != nil {
		volume = *req.Volume
	}
	if err := s.enforcer.ApplyNow(r.Context(), volume); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshotToView(s.enforcer.GetSnapshot()))
}

func statusView(st domain.DeviceStatus) map[string]any {
	return map[string]any{
		"device": st.Device.String(),
		"volume": int(st.Volume),
		"muted":  st.Muted,
	}
}

func snapshotToView(snap domain.Snapshot) map[string]any {
	var nextRun *time.Time
	if !snap.ScheduleState.NextRun.IsZero() {
		nr := snap.ScheduleState.NextRun
		nextRun = &nr
	}

	cfg := map[string]any{
		"device":          snap.Config.Device.String(),
		"targetVolume":    snap.Config.TargetVolume,
		"intervalSeconds": snap.Config.Interval.Seconds(),
		"enabled":         snap.Config.Enabled,
		"keepUnmuted":     snap.Config.KeepUnmuted,
		"lastApplyStatus": snap.ScheduleState.LastApplyStatus.String(),
	}

	if snap.ScheduleState.LastError != nil {
		cfg["lastError"] = snap.ScheduleState.LastError.Error()
	}
	if !snap.ScheduleState.LastApplied.IsZero() {
		cfg["lastApplied"] = snap.ScheduleState.LastApplied
	}

	return map[string]any{
		"config":  cfg,
		"nextRun": nextRun,
		"idle":    !snap.ScheduleState.IsRunning,
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrUnknownDevice),
		errors.Is(err, domain.ErrInvalidVolume),
		errors.Is(err, domain.ErrInvalidInterval):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("encode JSON: %v", err)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Infof("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>audioctl</title>
    <style>
        body { font-family: sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; }
        .info { background: #f0f0f0; padding: 15px; border-radius: 5px; margin: 20px 0; }
        button { background: #007bff; color: white; border: none; padding: 8px 16px; border-radius: 5px; cursor: pointer; }
        input { padding: 6px; margin: 5px; width: 70px; }
        label { display: inline-block; width: 90px; }
    </style>
</head>
<body>
    <h1>audioctl</h1>
    <div class="info" id="backend">Loading...</div>
    <div id="devices"></div>
    <div class="info" id="enforce"></div>
    <button onclick="applyNow()">Enforce Now</button>
    <script>
        const devices = ['speaker', 'mic'];

        async function load() {
            const b = await (await fetch('/api/backend')).json();
            document.getElementById('backend').textContent =
                b.platform + ': ' + b.backend + (b.source ? ' (' + b.source + ')' : '');

            let html = '';
            for (const d of devices) {
                const res = await fetch('/api/devices/' + d);
                const data = await res.json();
                if (!res.ok) {
                    html += '<div><label>' + d + '</label>' + data.error + '</div>';
                    continue;
                }
                html += '<div><label>' + d + '</label>' +
                    '<input type="number" min="0" max="100" id="vol-' + d + '" value="' + data.volume + '">' +
                    '<button onclick="setVolume(\'' + d + '\')">Set</button> ' +
                    '<button onclick="setMuted(\'' + d + '\',' + !data.muted + ')">' +
                    (data.muted ? 'Unmute' : 'Mute') + '</button></div>';
            }
            document.getElementById('devices').innerHTML = html;

            const e = await (await fetch('/api/enforce')).json();
            let status = 'Enforce ' + e.config.device + ' at ' + e.config.targetVolume +
                '% every ' + e.config.intervalSeconds + 's: ' + e.config.lastApplyStatus;
            if (e.config.lastError) {
                status += '<br>Error: ' + e.config.lastError;
            }
            document.getElementById('enforce').innerHTML = status;
        }

        async function put(d, body) {
            await fetch('/api/devices/' + d, {
                method: 'PUT',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify(body)
            });
            await load();
        }

        function setVolume(d) {
            put(d, {volume: parseFloat(document.getElementById('vol-' + d).value)});
        }

        function setMuted(d, muted) {
            put(d, {muted: muted});
        }

        async function applyNow() {
            await fetch('/api/enforce/apply', {method: 'POST'});
            await load();
        }

        load();
        setInterval(load, 3000);
    </script>
</body>
</html>`
