package config

// Event is the payload handed to hooks before it reaches the transport.
type Event map[string]any

// Hook is the closed set of before-send hook representations: either a
// function value or a {package, function} name pair resolved by the host
// application. Anything else is rejected during validation.
type Hook interface {
	isHook()
}

// HookFunc is a before-send hook supplied as a function value. Returning
// nil drops the event.
type HookFunc func(Event) Event

func (HookFunc) isHook() {}

// Call invokes the hook.
func (f HookFunc) Call(event Event) Event {
	return f(event)
}

// NamedHook is a before-send hook supplied as a {package, function} pair.
// Both fields are required.
type NamedHook struct {
	Package  string
	Function string
}

func (NamedHook) isHook() {}
