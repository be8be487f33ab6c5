package main

import (
	"context"
	"log/slog"
	"netbank/cmd/netbank-cli/commands"
	"netbank/lib/serviceutil"
	"netbank/lib/telemetry"
	"os"
)

func main() {
	ctx := serviceutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "netbank-cli")
	if err != nil {
		slog.Warn("failed to setup telemetry, continuing without it", "err", err)
	}
	code := commands.ExecuteContext(ctx)

	err = tel.Shutdown(context.Background())
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
	os.Exit(code)
}
