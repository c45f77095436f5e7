package signup

import (
	_ "embed"
	"fmt"

	"github.com/kbukum/transflow/di"
	"github.com/kbukum/transflow/event"
	"github.com/kbukum/transflow/flow"
	"github.com/kbukum/transflow/logger"
)

//go:embed signup.yml
var definitionYAML []byte

// Definition returns the default signup pipeline definition:
// preprocess -> validate -> persist, with persist publishing events.
func Definition() (*flow.Definition, error) {
	return flow.ParseDefinition(definitionYAML)
}

// Register adds every signup handler to c under its Handler* key.
func Register(c di.Container, store *Store) error {
	handlers := []struct {
		key string
		op  any
	}{
		{HandlerPreprocess, Preprocess()},
		{HandlerValidate, Validate()},
		{HandlerValidateAllowed, ValidateAllowed()},
		{HandlerPersist, Persist(store)},
		{HandlerValidateResult, ValidateResult()},
		{HandlerPersistResult, PersistResult(store)},
	}
	for _, h := range handlers {
		if err := c.RegisterSingleton(h.key, h.op); err != nil {
			return fmt.Errorf("signup: registering %s: %w", h.key, err)
		}
	}
	return nil
}

// NewPipeline builds the default signup pipeline over store.
func NewPipeline(store *Store, opts ...flow.Option) (*flow.Pipeline, error) {
	c := di.NewContainer()
	if err := Register(c, store); err != nil {
		return nil, err
	}
	def, err := Definition()
	if err != nil {
		return nil, err
	}
	return def.Build(c, opts...)
}

// Welcomer collects a welcome message for every persisted record.
type Welcomer struct {
	Outbox *event.Recorder
	log    *logger.Logger
}

// NewWelcomer returns a Welcomer with an empty outbox.
func NewWelcomer() *Welcomer {
	return &Welcomer{Outbox: &event.Recorder{}, log: logger.Get("signup")}
}

// Listener returns the listener to subscribe to the persist step.
func (w *Welcomer) Listener() event.Listener {
	return event.Hooks{
		Success: func(step string, res any) {
			r, ok := res.(Record)
			if !ok {
				return
			}
			w.log.Info("sending welcome", logger.Fields(logger.FieldStep, step, "email", r.Email))
			w.Outbox.Notify(event.New("welcome", event.KindSuccess, r.Email))
		},
		Failure: func(step string, input []any, cause any) {
			w.log.Warn("signup not persisted", logger.Fields(logger.FieldStep, step, logger.FieldError, fmt.Sprint(cause)))
		},
	}
}

// Sent returns the addresses welcomed so far.
func (w *Welcomer) Sent() []string {
	var out []string
	for _, e := range w.Outbox.Events() {
		if email, ok := e.Result().(string); ok {
			out = append(out, email)
		}
	}
	return out
}
