package di

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kbukum/transflow/errors"
	"github.com/kbukum/transflow/logger"
)

// RegistrationMode determines how a component is resolved.
type RegistrationMode int

const (
	Eager     RegistrationMode = iota // Initialize immediately on registration
	Lazy                              // Initialize on first resolve
	Singleton                         // Pre-created instance
)

func (m RegistrationMode) String() string {
	switch m {
	case Eager:
		return "eager"
	case Lazy:
		return "lazy"
	default:
		return "singleton"
	}
}

// Container defines the interface for a dependency injection container.
type Container interface {
	Register(key string, constructor any) error
	RegisterEager(key string, constructor any) error
	RegisterSingleton(key string, instance any) error
	Resolve(key string) (any, error)
	Has(key string) bool
	Registrations() []RegistrationInfo
	Close() error
}

// RegistrationInfo describes a registered component for introspection.
type RegistrationInfo struct {
	Key         string
	Mode        RegistrationMode
	Initialized bool
}

type registration struct {
	key         string
	constructor any
	mode        RegistrationMode
	mu          sync.Mutex
	instance    any
	initialized bool
}

// UnifiedContainer is the default Container implementation.
type UnifiedContainer struct {
	components map[string]*registration
	mu         sync.RWMutex
	log        *logger.Logger
}

// NewContainer returns an empty container.
func NewContainer() *UnifiedContainer {
	return &UnifiedContainer{
		components: make(map[string]*registration),
		log:        logger.Get("di"),
	}
}

// Register registers a constructor for lazy initialization.
func (c *UnifiedContainer) Register(key string, constructor any) error {
	if err := checkConstructor(key, constructor); err != nil {
		return err
	}
	return c.add(&registration{key: key, constructor: constructor, mode: Lazy})
}

// RegisterEager runs constructor now and registers its instance.
func (c *UnifiedContainer) RegisterEager(key string, constructor any) error {
	if err := checkConstructor(key, constructor); err != nil {
		return err
	}
	instance, err := c.callConstructor(constructor)
	if err != nil {
		return fmt.Errorf("failed to initialize eager component '%s': %w", key, err)
	}
	return c.add(&registration{key: key, mode: Eager, instance: instance, initialized: true})
}

// RegisterSingleton registers a pre-created instance.
func (c *UnifiedContainer) RegisterSingleton(key string, instance any) error {
	if instance == nil {
		return errors.InvalidArgument(fmt.Sprintf("component %q has a nil instance", key))
	}
	return c.add(&registration{key: key, mode: Singleton, instance: instance, initialized: true})
}

func (c *UnifiedContainer) add(reg *registration) error {
	if reg.key == "" {
		return errors.InvalidArgument("component key must not be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.components[reg.key]; exists {
		return errors.AlreadyExists("component").WithDetail("key", reg.key)
	}
	c.components[reg.key] = reg
	return nil
}

// Has reports whether key is registered.
func (c *UnifiedContainer) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.components[key]
	return ok
}

// Resolve returns the component registered under key.
func (c *UnifiedContainer) Resolve(key string) (any, error) {
	c.mu.RLock()
	reg, exists := c.components[key]
	c.mu.RUnlock()
	if !exists {
		return nil, errors.NotFound("component", key)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.initialized {
		return reg.instance, nil
	}

	instance, err := c.callConstructor(reg.constructor)
	if err != nil {
		c.log.Debug("lazy component initialization failed", map[string]interface{}{
			logger.FieldComponent: key,
			logger.FieldError:     err.Error(),
		})
		return nil, fmt.Errorf("failed to initialize lazy component '%s': %w", key, err)
	}
	reg.instance = instance
	reg.initialized = true
	c.log.Debug("lazy component initialized", map[string]interface{}{logger.FieldComponent: key})
	return instance, nil
}

func checkConstructor(key string, constructor any) error {
	if constructor == nil || reflect.TypeOf(constructor).Kind() != reflect.Func {
		return errors.InvalidArgument(fmt.Sprintf("constructor for %q must be a function", key))
	}
	return nil
}

var (
	contextType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	containerType = reflect.TypeOf((*Container)(nil)).Elem()
)

func (c *UnifiedContainer) callConstructor(constructor any) (any, error) {
	fn := reflect.ValueOf(constructor)
	fnType := fn.Type()

	var args []reflect.Value
	switch fnType.NumIn() {
	case 0:
	case 1:
		switch in := fnType.In(0); {
		case in == contextType:
			args = []reflect.Value{reflect.ValueOf(context.Background())}
		case in == containerType:
			args = []reflect.Value{reflect.ValueOf(Container(c))}
		default:
			return nil, fmt.Errorf("unsupported constructor argument %s", in)
		}
	default:
		return nil, fmt.Errorf("constructor must take at most one argument")
	}
	return handleConstructorResults(fn.Call(args))
}

func handleConstructorResults(results []reflect.Value) (any, error) {
	switch len(results) {
	case 1:
		return results[0].Interface(), nil
	case 2:
		if err, _ := results[1].Interface().(error); err != nil {
			return nil, err
		}
		return results[0].Interface(), nil
	default:
		return nil, fmt.Errorf("constructor must return either (instance) or (instance, error)")
	}
}

// Registrations returns info about all registered components, sorted by key.
func (c *UnifiedContainer) Registrations() []RegistrationInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]RegistrationInfo, 0, len(c.components))
	for key, reg := range c.components {
		reg.mu.Lock()
		out = append(out, RegistrationInfo{Key: key, Mode: reg.mode, Initialized: reg.initialized})
		reg.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Close closes every initialized component implementing Close() error and
// returns the first failure.
func (c *UnifiedContainer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var first error
	for key, reg := range c.components {
		if !reg.initialized {
			continue
		}
		closer, ok := reg.instance.(interface{ Close() error })
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			c.log.Warn("component close failed", map[string]interface{}{
				logger.FieldComponent: key,
				logger.FieldError:     err.Error(),
			})
			if first == nil {
				first = fmt.Errorf("closing %s: %w", key, err)
			}
		}
	}
	return first
}
