// Command muse generates media from the command line. It registers every
// built-in provider, runs one generation and writes the artifact to disk.
//
// Credentials come from the environment (a .env file is loaded when
// present); the prompt is whatever remains after the flags.
//
//	muse -kind music -provider suno -vocals "a sea shanty about gophers"
//	muse -kind video -duration 8 -aspect 9:16 "a gull stealing chips"
//	muse -list
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/casualjim/muse"
	"github.com/casualjim/muse/config"
	"github.com/casualjim/muse/content"
	"github.com/casualjim/muse/pkg/natsx"
	"github.com/casualjim/muse/pkg/slogx"
	"github.com/casualjim/muse/provider"
	"github.com/casualjim/muse/provider/openai"
	"github.com/casualjim/muse/provider/suno"
	"github.com/casualjim/muse/provider/veo"
	"github.com/casualjim/muse/pubsub"
	"github.com/casualjim/muse/sink"
	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log = zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelInfo}),
	))
}

var osExit = os.Exit

func main() {
	var (
		kind     = flag.String("kind", "music", "content kind to generate: music, video or image")
		name     = flag.String("provider", "", "provider name, defaults to the first registered for the kind")
		model    = flag.String("model", "", "provider specific model override")
		style    = flag.String("style", "", "style hint")
		duration = flag.Int("duration", 0, "duration in seconds, music and video only")
		aspect   = flag.String("aspect", "", "aspect ratio, for example 16:9")
		vocals   = flag.Bool("vocals", false, "request vocals, music only")
		ref      = flag.String("ref", "", "reference image url, video only")
		realtime = flag.Bool("realtime", false, "stream at playback speed, music only")
		timeout  = flag.Duration("timeout", 0, "per call timeout, 0 uses MUSE_TIMEOUT")
		outDir   = flag.String("out", "", "output directory, defaults to MUSE_OUTPUT_DIR")
		useNATS  = flag.Bool("nats", false, "publish run events to NATS (NATS_URL) instead of in process")
		list     = flag.Bool("list", false, "list registered providers and exit")
	)
	flag.Parse()

	settings := config.FromEnv()
	registerProviders(settings)

	if *list {
		listProviders(os.Stdout)
		osExit(0)
		return
	}

	prompt := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if prompt == "" {
		fmt.Fprintln(os.Stderr, "usage: muse [flags] <prompt>")
		flag.PrintDefaults()
		osExit(2)
		return
	}

	k := content.Kind(*kind)
	if !k.Valid() {
		slog.Error("unknown content kind", "kind", *kind)
		osExit(2)
		return
	}

	providerName := *name
	if providerName == "" {
		names := muse.Providers(k)
		if len(names) == 0 {
			slog.Error("no providers registered", "kind", k)
			osExit(1)
			return
		}
		providerName = names[0]
	}

	dir := *outDir
	if dir == "" {
		dir = settings.OutputDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	broker := pubsub.Local()
	if *useNATS {
		nc, err := natsx.NewClient()
		if err != nil {
			slog.Error("failed to connect to nats", slogx.Error(err))
			osExit(1)
			return
		}
		defer nc.Close()
		broker = pubsub.NATS(nc)
	}

	studio := muse.New(
		muse.WithBroker(broker),
		muse.WithHook(newConsoleHook(os.Stdout)),
		muse.WithTimeout(settings.Timeout),
	)

	res := studio.Generate(ctx, muse.Request{
		Kind:     k,
		Provider: providerName,
		Prompt:   prompt,
		Timeout:  *timeout,
		Options: provider.Options{
			Model:           *model,
			Style:           *style,
			DurationSeconds: *duration,
			AspectRatio:     *aspect,
			Vocals:          *vocals,
			ReferenceURL:    *ref,
			Realtime:        *realtime,
		},
	})
	if !res.Success() {
		slog.Error("generation failed",
			"provider", res.Provider,
			"code", res.Err.Code,
			slogx.Error(res.Err),
		)
		osExit(1)
		return
	}

	path, err := sink.Write(dir, res)
	if err != nil {
		slog.Error("failed to write artifact", slogx.Error(err))
		osExit(1)
		return
	}
	fmt.Fprintf(os.Stdout, "%s %s\n", color.GreenString("saved"), path)
}

func registerProviders(settings config.Settings) {
	for _, d := range []provider.Descriptor{
		openai.Descriptor(settings.OpenAI),
		suno.Descriptor(settings.Suno),
		veo.Descriptor(settings.Google),
	} {
		if err := provider.Register(d); err != nil {
			slog.Error("failed to register provider", "provider", d.Name, slogx.Error(err))
			osExit(1)
		}
	}
}

func listProviders(w io.Writer) {
	for _, k := range content.Kinds() {
		names := muse.Providers(k)
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", color.CyanString(k.String()), strings.Join(names, ", "))
	}
}
