// Package di provides the named component container pipelines resolve
// step handlers from.
//
// Components are registered under a key either as ready instances
// (RegisterSingleton) or as constructors. Lazy constructors run on first
// resolve; eager ones run at registration. Constructors may take no
// argument, a context.Context, or the Container itself, and return either
// the instance or (instance, error).
//
//	c := di.NewContainer()
//	_ = c.RegisterSingleton("persist_input", signup.Persist(store))
//	op, err := di.Resolve[step.Operation](c, "persist_input")
package di
