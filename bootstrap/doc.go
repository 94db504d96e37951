// Package bootstrap wires a keepalive process together: it builds the
// logger, the supervisor and its supporting components from a loaded
// config, then runs the supervisor until SIGINT or SIGTERM.
//
// # Quick Start
//
//	cfg, err := config.Load(config.WithConfigFile("keepalive.yml"))
//	if err != nil {
//	    return err
//	}
//	app, err := bootstrap.NewApp(cfg)
//	if err != nil {
//	    return err
//	}
//	return app.Run(ctx)
//
// Components (instance lock, tracer, status server) start before the first
// worker launch and stop in reverse order after the loop ends.
package bootstrap
