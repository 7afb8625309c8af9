package activity

import (
	"context"
	"strings"
)

// Config controls emission defaults supplied by the embedding application.
// Channel and Tenant are stamped onto events that do not carry their own.
type Config struct {
	Enabled bool
	Channel string
	Tenant  string
}

// Emitter fans out events to hooks while applying configured defaults.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
	tenant  string
}

// NewEmitter constructs an emitter from hooks and configuration.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = "facets"
	}
	normalizedHooks := cloneHooks(hooks)
	return &Emitter{
		hooks:   normalizedHooks,
		enabled: cfg.Enabled && len(normalizedHooks) > 0,
		channel: channel,
		tenant:  strings.TrimSpace(cfg.Tenant),
	}
}

// Enabled reports whether emissions should be attempted.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled && len(e.hooks) > 0
}

// Emit forwards the event to all hooks, filling the channel and tenant
// defaults when the event carries neither.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" && e.channel != "" {
		event.Channel = e.channel
	}
	if strings.TrimSpace(event.TenantID) == "" && e.tenant != "" {
		event.TenantID = e.tenant
	}
	return e.hooks.Notify(ctx, event)
}

func cloneHooks(hooks Hooks) Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	return Hooks(normalized)
}
