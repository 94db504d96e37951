// Package supervisor keeps a single worker process running.
//
// A Supervisor launches the worker, waits for it to exit for any reason,
// pauses for a fixed restart delay, and launches it again, until it is told
// to stop. Stopping is requested by cancelling the context passed to Run or
// by calling Stop; both are safe from any goroutine.
//
//	sup, err := supervisor.New(supervisor.Config{
//	    Command:      []string{"/usr/local/bin/bot", "--serve"},
//	    Environment:  env,
//	    RestartDelay: 5 * time.Second,
//	})
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	reason := sup.Run(ctx) // blocks until stopped
//
// At most one worker is alive at any instant: a new launch only happens after
// the previous worker's exit has been observed, and never after a stop
// request has been seen.
package supervisor
