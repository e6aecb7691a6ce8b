// Command gwdemo serves a small item store. Inside Lambda it handles API
// Gateway proxy events; elsewhere it runs the gateway command line, which
// also serves as its CDK app.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/advdv/apigw/gwapp"
	"github.com/advdv/apigw/gwcmd"
	"github.com/advdv/apigw/gwlambda"
)

// Version is set via ldflags at build time.
var Version = "dev"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	app := newApp(newStore(), gwapp.WithLogger(logger))

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		gwlambda.Start(app)
		return
	}

	cmd := gwcmd.New(app, gwcmd.WithName("gwdemo"), gwcmd.WithVersion(Version))
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
