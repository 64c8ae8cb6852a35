package main

import (
	"os"

	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/depotlink/gatectl/cmd/gatectl/app"
	"github.com/depotlink/gatectl/pkg/log"
)

func main() {
	ctx := genericapiserver.SetupSignalContext()
	code := app.Execute(app.NewGateCommand(ctx))
	_ = log.Sync()
	os.Exit(code)
}
