package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/alarm"
	"github.com/habibpatelhabib78-png/dailymate-app/internal/handler"
	"github.com/habibpatelhabib78-png/dailymate-app/internal/middleware"
	"github.com/habibpatelhabib78-png/dailymate-app/internal/push"
	"github.com/habibpatelhabib78-png/dailymate-app/internal/reset"
	"github.com/habibpatelhabib78-png/dailymate-app/internal/store"
	ws "github.com/habibpatelhabib78-png/dailymate-app/internal/websocket"
)

const (
	rateLimitRequests = 10
	rateLimitWindow   = time.Minute
	cleanupInterval   = 10 * time.Minute
)

// Options configures the alarm engine and optional web push.
type Options struct {
	// Location is the zone reminder times are read in. Nil means local.
	Location     *time.Location
	PollInterval time.Duration

	VAPIDPublicKey  string
	VAPIDPrivateKey string
	PushSubscriber  string
}

// Server owns the stores, the alarm engine and the HTTP handlers.
type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	kv            *store.KVStore
	reminderStore *store.ReminderStore
	pushStore     *store.PushStore
	engine        *alarm.Engine
	resetManager  *reset.Manager
	pushNotifier  *push.AlarmNotifier
	reminderH     *handler.ReminderHandler
	alarmH        *handler.AlarmHandler
	settingsH     *handler.SettingsHandler
	resetH        *handler.ResetHandler
	pushH         *handler.PushHandler
	rateLimiter   *middleware.RateLimiter
	unsubscribe   func()
	logger        *slog.Logger

	mu            sync.Mutex
	cancelCleanup context.CancelFunc
	cleanupDone   chan struct{}
}

// New wires every component on top of db.
func New(db *sql.DB, opts Options, logger *slog.Logger) *Server {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	hub := ws.NewHub(logger.With("component", "websocket"))
	presenter := ws.NewPresenter(hub)

	kv := store.NewKVStore(db)
	reminderStore := store.NewReminderStore(kv)
	settingsStore := store.NewSettingsStore(kv)
	pushSt := store.NewPushStore(db)

	// Every write reaches open pages so their views stay current.
	unsubscribe := kv.Subscribe(presenter.StorageChanged)

	resetMgr := reset.NewManager(kv, pushSt, logger.With("component", "reset"))

	notifiers := alarm.Notifiers{presenter}
	var pushNotifier *push.AlarmNotifier
	var pushH *handler.PushHandler
	if opts.VAPIDPublicKey != "" && opts.VAPIDPrivateKey != "" {
		pushLogger := logger.With("component", "push")
		pushSvc := push.NewService(opts.VAPIDPublicKey, opts.VAPIDPrivateKey, opts.PushSubscriber)
		pushNotifier = push.NewAlarmNotifier(pushSvc, pushSt, pushLogger)
		notifiers = append(notifiers, pushNotifier)
		pushH = handler.NewPushHandler(pushSt, pushSvc, pushNotifier, logger.With("component", "push_handler"))
	}

	engine := alarm.NewEngine(reminderStore, settingsStore, presenter, notifiers,
		logger.With("component", "alarm"),
		alarm.WithLocation(loc),
		alarm.WithPollInterval(opts.PollInterval),
		alarm.WithResetState(resetMgr),
		alarm.WithToaster(presenter),
	)
	resetMgr.SetInterrupter(engine)

	return &Server{
		db:            db,
		hub:           hub,
		kv:            kv,
		reminderStore: reminderStore,
		pushStore:     pushSt,
		engine:        engine,
		resetManager:  resetMgr,
		pushNotifier:  pushNotifier,
		reminderH:     handler.NewReminderHandler(reminderStore, settingsStore, loc, logger.With("component", "reminder")),
		alarmH:        handler.NewAlarmHandler(engine, logger.With("component", "alarm_handler")),
		settingsH:     handler.NewSettingsHandler(settingsStore, logger.With("component", "settings")),
		resetH:        handler.NewResetHandler(resetMgr, logger.With("component", "reset_handler")),
		pushH:         pushH,
		rateLimiter:   middleware.NewRateLimiter(rateLimitRequests, rateLimitWindow),
		unsubscribe:   unsubscribe,
		logger:        logger,
	}
}

// Engine returns the alarm engine.
func (s *Server) Engine() *alarm.Engine {
	return s.engine
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Start runs the alarm engine and the rate limiter cleanup until Stop.
func (s *Server) Start(ctx context.Context) {
	s.engine.Start(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelCleanup != nil {
		return
	}
	ctx, s.cancelCleanup = context.WithCancel(ctx)
	done := make(chan struct{})
	s.cleanupDone = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.rateLimiter.Prune(); n > 0 {
					s.logger.Debug("rate limiter pruned", "active_buckets", n)
				}
			}
		}
	}()
}

// Stop halts background work and waits for in-flight push deliveries.
func (s *Server) Stop() {
	s.engine.Stop()

	s.mu.Lock()
	cancel, done := s.cancelCleanup, s.cleanupDone
	s.cancelCleanup, s.cleanupDone = nil, nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}

	if s.pushNotifier != nil {
		s.pushNotifier.Wait()
	}
	s.unsubscribe()
}

// Router returns the HTTP handler with all routes registered.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Reminder API routes
	mux.HandleFunc("GET /api/reminders", s.reminderH.List)
	mux.HandleFunc("POST /api/reminders", s.reminderH.Create)
	mux.HandleFunc("GET /api/reminders/{id}", s.reminderH.Get)
	mux.HandleFunc("DELETE /api/reminders/{id}", s.reminderH.Delete)

	// Alarm API routes
	mux.HandleFunc("GET /api/alarm", s.alarmH.Get)
	mux.HandleFunc("POST /api/alarm/dismiss", s.alarmH.Dismiss)
	mux.HandleFunc("POST /api/alarm/snooze", s.alarmH.Snooze)

	// Settings API routes
	mux.HandleFunc("GET /api/settings", s.settingsH.Get)
	mux.HandleFunc("PUT /api/settings", s.settingsH.Update)

	mux.HandleFunc("POST /api/reset", s.rateLimitedHandler(s.resetH.Reset))

	// Push notification API routes
	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
		mux.HandleFunc("POST /api/push/test", s.rateLimitedHandler(s.pushH.TestNotification))
	}

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	return s.rateLimiter.Limit(middleware.ClientPathKey, h).ServeHTTP
}
