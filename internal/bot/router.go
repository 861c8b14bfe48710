package bot

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/webapp-bot/internal/bot/handlers"
)

// Router dispatches command messages to registered handlers.
type Router struct {
	mu          sync.RWMutex
	commands    map[string]handlers.Handler
	middlewares []handlers.Middleware
	log         *slog.Logger
}

// NewRouter builds a Router with empty registries.
func NewRouter(log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		commands:    make(map[string]handlers.Handler),
		middlewares: make([]handlers.Middleware, 0),
		log:         log,
	}
}

// RegisterCommand registers a handler for a bot command such as "/start".
// Commands are matched case-insensitively.
func (r *Router) RegisterCommand(cmd string, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[strings.ToLower(cmd)] = h
}

// Use appends a middleware to the chain. The first registered middleware runs outermost.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// Commands returns the registered command triggers in sorted order.
func (r *Router) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmds := make([]string, 0, len(r.commands))
	for cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Strings(cmds)
	return cmds
}

// Route directs the incoming update to the appropriate handler.
// Messages that match no registered command are ignored.
func (r *Router) Route(c telebot.Context) error {
	if c == nil {
		return nil
	}

	cmd, ok := ParseCommand(c.Text())
	if !ok {
		return nil
	}

	if handler := r.getCommandHandler(cmd); handler != nil {
		return r.executeHandler(handler, c)
	}

	return nil
}

// ParseCommand extracts the lowercased "/cmd" from message text such as "/Cmd@bot_name payload".
func ParseCommand(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") || len(fields[0]) == 1 {
		return "", false
	}

	cmd, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(cmd), true
}

func (r *Router) executeHandler(h handlers.Handler, c telebot.Context) error {
	wrapped := r.applyMiddlewares(h)
	if wrapped == nil {
		return nil
	}
	return wrapped(c)
}

func (r *Router) getCommandHandler(cmd string) handlers.Handler {
	r.mu.RLock()
	handler := r.commands[cmd]
	r.mu.RUnlock()
	return handler
}

// applyMiddlewares wraps the handler with all registered middlewares.
func (r *Router) applyMiddlewares(h handlers.Handler) handlers.Handler {
	if h == nil {
		return nil
	}

	middlewares := r.middlewaresSnapshot()
	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}

func (r *Router) middlewaresSnapshot() []handlers.Middleware {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.middlewares) == 0 {
		return nil
	}

	snapshot := make([]handlers.Middleware, len(r.middlewares))
	copy(snapshot, r.middlewares)
	return snapshot
}
