package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/framecv/pkg/config"
	"github.com/tauraamui/framecv/pkg/configdef"
	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/framecv/pkg/log"
	"github.com/tauraamui/framecv/pkg/probe"
	"github.com/tauraamui/framecv/pkg/testcard"
)

const usage = "Usage: framecv setup | probe | testcard <path> [title]"

var fs = afero.NewOsFs()

func setup() (string, error) {
	log.Info("Writing default framecv config...")
	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}
	return "Setup successful...", nil
}

func runProbe() (string, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	values, err := config.DefaultResolver().Resolve()
	if err != nil {
		return "", err
	}
	log.Verbose(values.Debug)

	results, err := probe.Run(ctx, fs, values)
	if err != nil {
		return "", err
	}

	failed := 0
	for _, r := range results {
		if !r.RoundTrip || !r.Reused {
			failed++
		}
	}
	if failed > 0 {
		return "", fmt.Errorf("%d of %d frames did not round trip cleanly", failed, len(results))
	}
	return fmt.Sprintf("Probed %d frames... all aliased", len(results)), nil
}

func writeTestCard(args []string) (string, error) {
	if len(args) == 0 {
		return usage, nil
	}
	title := ""
	if len(args) > 1 {
		title = strings.Join(args[1:], " ")
	}

	f, err := testcard.Frame(600, 400, title)
	if err != nil {
		return "", err
	}
	d, err := frame.Marshal(f)
	if err != nil {
		return "", err
	}
	if err := afero.WriteFile(fs, args[0], d, 0644); err != nil {
		return "", err
	}
	return fmt.Sprintf("Wrote test card dump to %s", args[0]), nil
}

func manage(args []string) (string, error) {
	if len(args) == 0 {
		return runProbe()
	}
	switch args[0] {
	case "setup":
		return setup()
	case "probe":
		return runProbe()
	case "testcard":
		return writeTestCard(args[1:])
	default:
		return usage, nil
	}
}

func init() {
	logging.CallbackLabelLevel = 5
	logging.ColorLogLevelLabelOnly = true
	switch strings.ToLower(os.Getenv("FRAMECV_LOGGING_LEVEL")) {
	case "debug":
		logging.SetLevel(logging.DebugLevel)
	case "warn":
		logging.SetLevel(logging.WarnLevel)
	default:
		logging.SetLevel(logging.InfoLevel)
	}
}

func main() {
	status, err := manage(os.Args[1:])
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
	fmt.Println(status)
}
