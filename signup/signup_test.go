package signup

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/transflow/di"
	"github.com/kbukum/transflow/errors"
	"github.com/kbukum/transflow/event"
	"github.com/kbukum/transflow/flow"
	"github.com/kbukum/transflow/logger"
	"github.com/kbukum/transflow/result"
	"github.com/kbukum/transflow/step"
)

var jane = map[string]any{"name": "Jane", "email": "jane@doe.org"}

func newContainer(t *testing.T, store *Store) *di.UnifiedContainer {
	t.Helper()
	c := di.NewContainer()
	require.NoError(t, Register(c, store))
	return c
}

func TestPipeline_StoresRecord(t *testing.T) {
	store := NewStore()
	p, err := NewPipeline(store, flow.WithLogger(logger.NewNop()))
	require.NoError(t, err)
	assert.Equal(t, "Pipeline(preprocess -> validate -> persist)", p.String())

	out, err := p.Execute(context.Background(), jane, nil)
	require.NoError(t, err)

	want := Record{Name: "Jane", Email: "jane@doe.org"}
	assert.Equal(t, want, out)
	assert.True(t, store.Contains(want))
	assert.Equal(t, 1, store.Len())
}

func TestPipeline_MissingEmail(t *testing.T) {
	store := NewStore()
	p, err := NewPipeline(store, flow.WithLogger(logger.NewNop()))
	require.NoError(t, err)

	_, err = p.Execute(context.Background(), map[string]any{"name": "Jane"}, nil)
	require.Error(t, err)

	assert.Equal(t, "Pipeline(preprocess -> validate -> persist) failed [StepError: Missing required field: email]", err.Error())
	f, ok := flow.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, "validate", f.Step)
	assert.True(t, errors.HasCode(err, errors.ErrCodeMissingField))
	assert.Empty(t, store.Records())
}

func TestPipeline_InvalidEmail(t *testing.T) {
	store := NewStore()
	p, err := NewPipeline(store, flow.WithLogger(logger.NewNop()))
	require.NoError(t, err)

	_, err = p.Execute(context.Background(), map[string]any{"name": "Jane", "email": "nope"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "StepError: email")
	assert.Zero(t, store.Len())
}

func TestPipeline_AllowedEmails(t *testing.T) {
	store := NewStore()
	p, err := flow.NewBuilder(newContainer(t, store)).
		Step("preprocess", flow.With(HandlerPreprocess)).
		Step("validate", flow.With(HandlerValidateAllowed)).
		Step("persist", flow.With(HandlerPersist)).
		Build(flow.WithLogger(logger.NewNop()))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = p.Execute(ctx, jane, flow.Overrides{"validate": {[]string{"jane@doe.org"}}})
	require.NoError(t, err)
	assert.True(t, store.Contains(Record{Name: "Jane", Email: "jane@doe.org"}))

	_, err = p.Execute(ctx, jane, flow.Overrides{"validate": {[]string{"jade@doe.org"}}})
	require.Error(t, err)
	assert.Regexp(t, `StepError: email unknown`, err.Error())
	assert.Equal(t, 1, store.Len())

	_, err = p.Execute(ctx, jane, flow.Overrides{"validation": {[]string{"jane@doe.org"}}})
	assert.True(t, errors.IsArgumentError(err))
	assert.False(t, flow.IsFailure(err))
}

func TestPipeline_WelcomesPersistedUsers(t *testing.T) {
	store := NewStore()
	p, err := NewPipeline(store, flow.WithLogger(logger.NewNop()))
	require.NoError(t, err)

	w := NewWelcomer()
	require.NoError(t, p.Subscribe(map[string][]event.Listener{"persist": {w.Listener()}}))
	require.True(t, errors.HasCode(
		p.Subscribe(map[string][]event.Listener{"validate": {w.Listener()}}),
		errors.ErrCodeNotPublishing,
	))

	_, err = p.Execute(context.Background(), jane, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"jane@doe.org"}, w.Sent())
}

func TestPipeline_PersistFailureBroadcast(t *testing.T) {
	c := di.NewContainer()
	require.NoError(t, c.RegisterSingleton(HandlerPreprocess, Preprocess()))
	require.NoError(t, c.RegisterSingleton(HandlerValidate, Validate()))
	require.NoError(t, c.RegisterSingleton(HandlerPersist, step.Unary(HandlerPersist, func(r Record) (Record, error) {
		return Record{}, step.Wrap(stderrors.New("OH NOEZ"), "oops")
	})))

	def, err := Definition()
	require.NoError(t, err)
	p, err := def.Build(c, flow.WithLogger(logger.NewNop()))
	require.NoError(t, err)

	var failures []string
	hooks := event.Hooks{Failure: func(_ string, input []any, cause any) {
		r := input[0].(Record)
		se := cause.(*step.Error)
		failures = append(failures, fmt.Sprintf("%s %s %s", r.Email, se.Message, se.Cause))
	}}
	require.NoError(t, p.Subscribe(map[string][]event.Listener{"persist": {hooks}}))

	_, err = p.Execute(context.Background(), jane, nil)
	require.Error(t, err)
	assert.Equal(t, "Pipeline(preprocess -> validate -> persist) failed [StepError: oops]", err.Error())
	assert.Equal(t, []string{"jane@doe.org oops OH NOEZ"}, failures)
}

func TestPipeline_TwoTrack(t *testing.T) {
	store := NewStore()
	p, err := flow.NewBuilder(newContainer(t, store)).
		Monadic(true).
		Step("preprocess", flow.With(HandlerPreprocess)).
		Step("validate", flow.With(HandlerValidateResult), flow.Publishing()).
		Step("persist", flow.With(HandlerPersistResult)).
		Build(flow.WithLogger(logger.NewNop()))
	require.NoError(t, err)

	var rejected []string
	require.NoError(t, p.Subscribe(map[string][]event.Listener{"validate": {event.Hooks{
		Failure: func(_ string, input []any, cause any) {
			rejected = append(rejected, fmt.Sprintf("%s %v", input[0].(Record).Email, cause))
		},
	}}}))
	ctx := context.Background()

	out, err := p.Execute(ctx, jane, nil)
	require.NoError(t, err)
	email := result.Map(out.(result.Result[Record]), func(r Record) string { return r.Email })
	assert.Equal(t, "jane@doe.org", email.Value())
	assert.Equal(t, 1, store.Len())

	out, err = p.Execute(ctx, map[string]any{"email": "jane@doe.org"}, nil)
	require.NoError(t, err, "an Err result keeps flowing instead of failing the call")
	res := out.(result.Result[Record])
	assert.True(t, res.IsErr())
	assert.Equal(t, "Missing required field: name", res.Err().Error())
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, []string{"jane@doe.org Missing required field: name"}, rejected)
}

func TestRegister_Twice(t *testing.T) {
	store := NewStore()
	c := newContainer(t, store)
	err := Register(c, store)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAlreadyExists))
}

func TestDefinition(t *testing.T) {
	def, err := Definition()
	require.NoError(t, err)
	require.NoError(t, def.Validate())
	assert.Equal(t, "signup", def.Name)
	require.Len(t, def.Steps, 3)
	assert.Equal(t, HandlerPersist, def.Steps[2].With)
}

func TestPreprocess(t *testing.T) {
	out, err := Preprocess().Call(map[string]any{"name": "Jane", "email": 42})
	require.NoError(t, err)
	assert.Equal(t, Record{Name: "Jane"}, out)
}

func TestStoreAndWelcomer_LogFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, &buf, "signup")

	store := NewStore()
	store.log = log
	store.Append(Record{Name: "Jane", Email: "jane@doe.org"})

	w := NewWelcomer()
	w.log = log
	w.Listener().Notify(event.New("persist", event.KindSuccess, Record{Name: "Jane", Email: "jane@doe.org"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var stored, welcomed map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &stored))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &welcomed))

	assert.Equal(t, "jane@doe.org", stored["email"])
	assert.EqualValues(t, 1, stored["count"])
	assert.Equal(t, "persist", welcomed[logger.FieldStep])
	assert.Equal(t, "jane@doe.org", welcomed["email"])
}
