// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/automaxprocs/maxprocs"
	"gopkg.in/natefinch/lumberjack.v2"

	"slicecrc/internal/config"
	"slicecrc/internal/core"
	"slicecrc/internal/pkg/global"
	"slicecrc/internal/version"
	"slicecrc/internal/web"
)

func main() {
	setupFlagsAndEnvParser()

	if viper.GetBool("version") {
		fmt.Println(version.Print())
		return
	}

	setupLogger()

	if global.IsLinux {
		if _, err := maxprocs.Set(); err != nil {
			log.Warn().Err(err).Msg("failed to set GOMAXPROCS automatically, consider to set env manually if you are running with cgroup")
		}
	}

	cfg := mustParseConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	defer stop()

	if viper.GetBool("serve") {
		serve(ctx, cfg)
		return
	}

	if !hash(ctx, cfg, pflag.Args()) {
		stop()
		os.Exit(1)
	}
}

func setupFlagsAndEnvParser() {
	pflag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [flags] [path ...]\n\nPrint CRC-32 (IEEE) checksums, '-' or no path reads standard input.\n\n", global.Name)
		pflag.PrintDefaults()
	}

	pflag.String("config-file", "", "path to config file (default {user config dir}/slicecrc/config.toml)")

	pflag.Int("workers", 0, "number of files read at the same time (default number of CPUs)")
	pflag.String("max-inflight", "", "upper bound of file content held in memory (default 256MiB)")
	pflag.String("rate-limit", "", "limit read speed, for example 50MiB (default unlimited)")
	pflag.BoolP("recursive", "r", false, "checksum files in directories")
	pflag.BoolP("follow-symlinks", "L", false, "follow symbolic links while walking directories")
	pflag.Bool("json", false, "print one json object per line")
	pflag.Bool("progress", false, "log throughput every second")

	pflag.Bool("serve", false, "run the http server instead of reading files")
	pflag.String("web", "", "http listen address (default 127.0.0.1:8003)")

	pflag.Bool("log-json", false, "log as json format")
	pflag.String("log-level", "warn", "log level")
	pflag.String("log-file", "", "also write log to this file, rotated")

	pflag.Bool("debug", false, "enable debug endpoints")
	pflag.BoolP("version", "V", false, "print version and exit")

	// this avoids 'pflag: help requested' error when calling for help message.
	if slices.Contains(os.Args[1:], "--help") || slices.Contains(os.Args[1:], "-h") {
		pflag.Usage()
		_, _ = fmt.Fprintln(os.Stderr, "\nNote: command arguments will override config file, but won't change config file.")
		os.Exit(0)
		return
	}

	pflag.Parse()

	viper.SetEnvPrefix("SLICECRC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	lo.Must0(viper.BindPFlags(pflag.CommandLine), "failed to parse combine argument with env")
}

func errExit(msg ...any) {
	_, _ = color.New(color.FgRed).Fprintln(os.Stderr, msg...)
	os.Exit(1)
}

func parseLogLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}

	errExit(fmt.Sprintf("unknown log level %q, only trace/debug/info/warn/error is allowed", s))

	return zerolog.NoLevel
}

func setupLogger() {
	logLevel := parseLogLevel(viper.GetString("log-level"))

	// stdout is for checksums
	var w io.Writer = os.Stderr

	if !viper.GetBool("log-json") {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	if logFile := viper.GetString("log-file"); logFile != "" {
		rotation := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, //days
		}
		w = zerolog.MultiLevelWriter(rotation, w)
	}

	log.Logger = log.Output(w).Level(logLevel)
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, global.Name, "config.toml")
}

func mustParseConfig() config.Config {
	configFilePath := viper.GetString("config-file")
	if configFilePath == "" {
		configFilePath = defaultConfigPath()
	}

	cfg := config.Default()
	if configFilePath != "" {
		var err error
		cfg, err = config.LoadFromFile(configFilePath)
		if err != nil {
			errExit("failed to load config", err)
		}
	}

	if viper.IsSet("workers") {
		cfg.Hash.Workers = viper.GetInt("workers")
	}

	for key, dst := range map[string]*config.Size{
		"max-inflight": &cfg.Hash.MaxInflight,
		"rate-limit":   &cfg.Hash.RateLimit,
	} {
		if s := viper.GetString(key); s != "" {
			v, err := config.ParseSize(s)
			if err != nil {
				errExit(fmt.Sprintf("invalid --%s", key), err)
			}
			*dst = v
		}
	}

	if viper.IsSet("recursive") {
		cfg.Hash.Recursive = viper.GetBool("recursive")
	}

	if viper.IsSet("follow-symlinks") {
		cfg.Hash.FollowSymlinks = viper.GetBool("follow-symlinks")
	}

	if address := viper.GetString("web"); address != "" {
		cfg.Web.Address = address
	}

	if err := cfg.Validate(); err != nil {
		errExit(err)
	}

	return cfg
}

type jsonLine struct {
	Path  string  `json:"path"`
	Hex   string  `json:"hex,omitempty"`
	Error string  `json:"error,omitempty"`
	CRC32 *uint32 `json:"crc32,omitempty"`
	Size  int64   `json:"size"`
}

// hash prints one line per input and reports whether every input succeeded.
func hash(ctx context.Context, cfg config.Config, args []string) bool {
	h, err := core.New(cfg.Hash, prometheus.DefaultRegisterer)
	if err != nil {
		errExit(err)
	}
	defer h.Close()

	if viper.GetBool("progress") {
		progressCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go h.ReportProgress(progressCtx, time.Second)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	asJSON := viper.GetBool("json")
	red := color.New(color.FgRed)

	summary := h.Run(ctx, h.Expand(args), func(r core.Result) {
		if asJSON {
			line := jsonLine{Path: r.Path, Size: r.Size}
			if r.Err != nil {
				line.Error = r.Err.Error()
			} else {
				line.Hex = r.Hex()
				line.CRC32 = lo.ToPtr(r.CRC32)
			}
			_ = enc.Encode(line)
			return
		}

		if r.Err != nil {
			// keep stdout and stderr in order
			_ = out.Flush()
			_, _ = red.Fprintf(os.Stderr, "%s: %s\n", r.Path, r.Err)
			return
		}

		_, _ = fmt.Fprintf(out, "%s  %s\n", r.Hex(), r.Path)
	})

	log.Info().
		Int64("files", summary.Files).
		Int64("failed", summary.Failed).
		Str("size", humanize.IBytes(uint64(summary.Bytes))).
		Str("rate", humanize.IBytes(uint64(summary.AvgRate))+"/s").
		Dur("duration", summary.Duration).
		Msg("done")

	return summary.Failed == 0
}

func serve(ctx context.Context, cfg config.Config) {
	server := &http.Server{
		Addr:              cfg.Web.Address,
		Handler:           web.New(cfg.Web, prometheus.DefaultGatherer, viper.GetBool("debug")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	fmt.Println("start", "http://"+cfg.Web.Address)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errExit("failed to start http server", err)
	}

	fmt.Println("shutting down...")
}
