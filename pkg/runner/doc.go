/*
Package runner drives a machine from its current configuration until it halts.

The engine in package machine applies one transition per Step; the runner adds
everything a caller needs around that loop: a step budget, cancellation, a trace
of every configuration, lifecycle hooks for observability and periodic checkpoints
for durable sessions.

# Usage

	prog, _ := dsl.Parse(src)
	m := prog.Machine(dsl.Tokenize("1 + 1 1 ="), 0)

	res, err := runner.Run(ctx, m,
		runner.WithMaxSteps(10_000),
		runner.WithTrace(os.Stdout, nil),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.State, res.Tape)

A run that hits the budget or is cancelled returns the error together with a
Result whose Machine field is still live, so it can be resumed with another Run.
*/
package runner
