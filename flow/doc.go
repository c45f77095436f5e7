// Package flow composes named steps into a pipeline.
//
// A Pipeline runs its steps left to right in declaration order, feeding each
// step the previous step's output. Callers may inject extra leading
// arguments into individual steps for a single call:
//
//	p, _ := flow.New([]flow.Step{
//	    {Name: "preprocess", Operation: preprocess},
//	    {Name: "validate", Operation: validateAllowed},
//	    {Name: "persist", Operation: persist},
//	})
//	out, err := p.Execute(ctx, input, flow.Overrides{
//	    "validate": {[]string{"jane@doe.org"}},
//	})
//
// Argument problems (unknown override keys, steps that cannot be curried)
// are reported as *errors.AppError before any step runs. A failing step
// stops the chain and is reported as a *Failure wrapping the *step.Error.
//
// Builder and Definition assemble pipelines from handler names resolved
// through a di container, either fluently in Go or from YAML.
package flow
