package orchestration

import "github.com/koscakluka/ema-chat/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

// newListenerEventEmitter fans an event out to every listener. A panicking
// listener is logged and does not stop the others.
func newListenerEventEmitter(listeners []func(events.Event)) eventEmitter {
	if len(listeners) == 0 {
		return noopEventEmitter
	}

	return func(event events.Event) {
		for _, listener := range listeners {
			func() {
				defer func() {
					if recovered := recover(); recovered != nil {
						logger.Error("event listener panicked", "kind", string(event.Kind()), "panic", recovered)
					}
				}()
				listener(event)
			}()
		}
	}
}
