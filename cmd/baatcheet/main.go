package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/fx"

	"github.com/hafizhannan/baatcheet/internal/app"
	"github.com/hafizhannan/baatcheet/internal/config"
	"github.com/hafizhannan/baatcheet/internal/profile"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	serverFlag := flag.String("server", "", "websocket server url (overrides config)")
	langFlag := flag.String("lang", "", "assistant language tag (overrides config)")
	flag.Parse()

	cfg := config.LoadWithEnv(profile.ConfigPath())
	if *serverFlag != "" {
		cfg.ServerURL = *serverFlag
	}
	if *langFlag != "" {
		cfg.AssistantLang = *langFlag
	}

	name := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fx.New(
		app.Module(app.Params{Profile: name, Config: cfg}),
	).Run()
}
