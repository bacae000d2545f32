// Package dev keeps the generated route module in sync with the route
// directory during development.
//
// # Architecture
//
//   - Watcher: fsnotify-backed recursive watcher reporting files and
//     directories added or removed under the route root
//   - Coordinator: debounces watch events and runs rebuilds (scan, generate,
//     atomic write, optional manifest and S3 publish)
//   - ReloadServer: notifies browsers of rebuilds via WebSocket
//   - Server: chi router exposing the reload socket, the manifest and metrics,
//     with requests traced and counted by pkg/middleware
//
// # Usage
//
//	coord := dev.NewCoordinator(dev.CoordinatorOptions{
//	    Conventions: cfg.Conventions(),
//	    Output:      output.NewFileWriter(nil, cfg.OutputPath()),
//	    Debounce:    cfg.Dev.Debounce.Std(),
//	})
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := coord.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Debouncing
//
// Every event is logged as it arrives and restarts the debounce timer. A
// rebuild runs once the route tree has been quiet for the whole window, so a
// burst of events produces a single rebuild. A failed rebuild is logged and
// leaves the previous output in place; the coordinator keeps running.
//
// # Reload Protocol
//
// Browsers connect to /_routegen/reload via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "routes", "file": "...", "routes": 12}  // module rewritten
//	{"type": "error", "error": "..."}                // rebuild failed
package dev
