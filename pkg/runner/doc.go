/*
Package runner executes compiled programs as Monte Carlo batches.

A batch runs the same program many times, each trial against a fresh
simulation memory with its own random stream, and reduces the outcomes to a
domain.Summary. Trials are spread over a pool of workers; every trial derives
its seed from the batch seed and its index, so a batch is reproducible for a
given seed no matter how many workers run it.

# Usage

	r := runner.New(
		runner.WithTrials(runner.DefaultTrials),
		runner.WithSeed(42),
		runner.WithHooks(metrics.Hooks()),
	)

	report, err := r.Run(ctx, prog)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report.Summary.MeanProfit)

Cancelling ctx stops the batch between trials.
*/
package runner
