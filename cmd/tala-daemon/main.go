package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"tala/internal/chat"
	"tala/internal/config"
	"tala/internal/convo"
	"tala/internal/ipc"
	"tala/internal/news"
	"tala/internal/pipeline"
	"tala/internal/proxy"
	"tala/internal/server"
	"tala/internal/stt"
	"tala/internal/tts"
	"tala/internal/weather"
	"tala/pkg/protocol"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	cfgFile := cli.StringP("config", "c", "tala.yaml", "Config file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Error("Failed to load config", "path", *cfgFile, "err", err)
		os.Exit(1)
	}
	if cfg.OpenAIKey == "" {
		log.Error("OPENAI_API_KEY not set")
		os.Exit(1)
	}

	log.Debug("Loaded config", "addr", cfg.Addr)

	httpClient := http.DefaultClient
	if cfg.ProxyAddr != "" {
		httpClient, err = proxy.NewSocksClient(cfg.ProxyAddr)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", cfg.ProxyAddr, "err", err)
			os.Exit(1)
		}
		log.Debug("Loaded proxy")
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.OpenAIKey),
		option.WithHTTPClient(httpClient),
	)

	store := convo.Open(cfg.HistoryFile, cfg.MaxHistory)
	log.Debug("Loaded history", "turns", store.Len())

	pipe := &pipeline.Pipeline{
		STT:         stt.NewTranscriber(client),
		TTS:         tts.NewSynthesizer(client),
		Weather:     weather.NewClient(httpClient, cfg.WeatherURL, cfg.WeatherKey),
		News:        news.NewClient(httpClient, cfg.NewsURL, cfg.NewsKey),
		Chat:        chat.NewClient(client),
		Store:       store,
		Chunker:     protocol.Chunker{Size: cfg.ChunkSize, Pace: cfg.ChunkPace.Std()},
		Loc:         cfg.Location(),
		CallTimeout: cfg.CallTimeout.Std(),
	}

	srv := server.New(cfg, pipe)

	startedAt := time.Now()
	err = ipc.StartServer(cfg.SocketPath, func(msg ipc.ControlMessage) ipc.Reply {
		switch msg.Cmd {
		case "status":
			return ipc.Reply{OK: true, Text: fmt.Sprintf(
				"up %s, sessions %d, turns %d",
				time.Since(startedAt).Round(time.Second), srv.ActiveSessions(), store.Len())}
		case "reset-history":
			store.Reset()
			return ipc.Reply{OK: true, Text: "history cleared"}
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
			return ipc.Reply{OK: false, Text: "unknown command"}
		}
	})
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		err := httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
			return
		}
		listenErr <- nil
	}()

	log.Info("Boot up - successful", "addr", cfg.Addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-listenErr:
		if err != nil {
			log.Error("Failed to serve", "err", err)
			os.Exit(1)
		}
		return
	case sig := <-sigCh:
		log.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down cleanly", "err", err)
		os.Exit(1)
	}
	log.Info("Stopped")
}
