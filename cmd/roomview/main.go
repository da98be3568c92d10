// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// roomview is a terminal viewer for the timeline of one Matrix room.
//
// It syncs the room from the homeserver, shows its events with read
// marker, highlights and day separators, loads older history when
// scrolled to the top, and moves the server-side read marker on
// request.
//
// Configuration comes from the file named by --config or
// ROOMVIEW_CONFIG. The access token is read from matrix.token_file;
// run once with --login to create it.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/roomview/lib/config"
	"github.com/bureau-foundation/roomview/lib/ref"
	"github.com/bureau-foundation/roomview/lib/secret"
	"github.com/bureau-foundation/roomview/lib/timeline"
	"github.com/bureau-foundation/roomview/lib/timelineui"
	"github.com/bureau-foundation/roomview/lib/version"
	"github.com/bureau-foundation/roomview/messaging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var roomFlag string
	var logOutput string
	var login bool

	flagSet := pflag.NewFlagSet("roomview", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to the config file (default: $ROOMVIEW_CONFIG)")
	flagSet.StringVar(&roomFlag, "room", "", "room ID or alias to open (default: matrix.room from the config)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (overrides log.file)")
	flagSet.BoolVar(&login, "login", false, "log in with a password and save the access token to matrix.token_file")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print(os.Stdout, "roomview")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if logOutput != "" {
		cfg.Log.File = logOutput
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stderrLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client, err := messaging.NewClient(messaging.ClientConfig{
		HomeserverURL: cfg.Matrix.Homeserver,
		Logger:        stderrLogger,
	})
	if err != nil {
		return err
	}
	userID, err := ref.ParseUserID(cfg.Matrix.UserID)
	if err != nil {
		return err
	}

	if login {
		return runLogin(ctx, client, userID, cfg.Matrix.TokenFile)
	}

	roomReference := roomFlag
	if roomReference == "" {
		roomReference = cfg.Matrix.Room
	}
	if roomReference == "" {
		return errors.New("no room given: pass --room or set matrix.room in the config")
	}

	token, err := secret.ReadFile(cfg.Matrix.TokenFile)
	if err != nil {
		return fmt.Errorf("%w (run roomview --login to create the token file)", err)
	}
	session := client.SessionFromToken(userID, token)
	defer session.Close()

	roomID, err := resolveRoom(ctx, session, roomReference)
	if err != nil {
		return err
	}

	return runViewer(ctx, cfg, session, roomID)
}

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config:\n%w", err)
	}
	return cfg, nil
}

// runLogin prompts for the account password, logs in, and writes the
// access token to tokenFile with mode 0600.
func runLogin(ctx context.Context, client *messaging.Client, userID ref.UserID, tokenFile string) error {
	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return errors.New("no terminal available for the password prompt")
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", userID)
	passwordBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	password, err := secret.NewFromBytes(passwordBytes)
	if err != nil {
		secret.Zero(passwordBytes)
		return err
	}
	defer password.Close()

	session, err := client.Login(ctx, userID.String(), password)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := os.MkdirAll(filepath.Dir(tokenFile), 0700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := os.WriteFile(tokenFile, []byte(session.AccessToken()+"\n"), 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Logged in as %s (device %s)\n", session.UserID(), session.DeviceID())
	fmt.Fprintf(os.Stderr, "Access token saved to %s\n", tokenFile)
	return nil
}

// resolveRoom accepts a room ID ("!id:server") or alias
// ("#alias:server").
func resolveRoom(ctx context.Context, session messaging.Session, reference string) (ref.RoomID, error) {
	if strings.HasPrefix(reference, "#") {
		alias, err := ref.ParseRoomAlias(reference)
		if err != nil {
			return ref.RoomID{}, err
		}
		return session.ResolveAlias(ctx, alias)
	}
	return ref.ParseRoomID(reference)
}

// runViewer runs the sync loop and the TUI until the user quits.
//
// Background logging is routed through a timelineui.LogHandler that
// shows warnings in the status bar instead of writing to stderr, which
// would corrupt the alternate screen. An optional file logger captures
// records at the configured level.
func runViewer(ctx context.Context, cfg *config.Config, session messaging.Session, roomID ref.RoomID) error {
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	location, err := cfg.UI.Location()
	if err != nil {
		return err
	}
	pollTimeout, err := cfg.Timeline.PollTimeoutDuration()
	if err != nil {
		return err
	}

	tuiHandler := timelineui.NewLogHandler(max(level, slog.LevelWarn))
	var logger *slog.Logger
	if cfg.Log.File != "" {
		fileHandler, closeFile, err := openFileLogHandler(cfg.Log.File, level)
		if err != nil {
			return fmt.Errorf("cannot open log file %s: %w", cfg.Log.File, err)
		}
		defer closeFile()
		logger = slog.New(fanoutHandler{tuiHandler, fileHandler})
	} else {
		logger = slog.New(tuiHandler)
	}

	// The dispatcher is bound once the program exists; nothing
	// dispatches before the sync loop starts below.
	var dispatch messaging.Dispatcher
	syncer, err := messaging.NewSyncer(messaging.SyncerConfig{
		Session:         session,
		Dispatch:        func(fn func()) { dispatch(fn) },
		Logger:          logger,
		TimelineLimit:   cfg.Timeline.InitialLimit,
		HistoryPageSize: cfg.Timeline.HistoryPageSize,
		PollTimeout:     pollTimeout,
	})
	if err != nil {
		return err
	}

	model := timeline.NewModel(timeline.ModelConfig{
		Projector: timeline.ProjectorConfig{
			HighlightColor: cfg.UI.HighlightColor,
			Location:       location,
		},
		HighlightKeywords: cfg.Timeline.HighlightKeywords,
		Logger:            logger,
	})
	model.SetRoom(syncer.Room(roomID))

	view, err := timelineui.NewModel(timelineui.Config{
		Timeline:   model,
		History:    syncer,
		TimeFormat: cfg.UI.TimeFormat,
		DateFormat: cfg.UI.DateFormat,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer view.Close()

	program := tea.NewProgram(view, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	dispatch = timelineui.Dispatcher(program)
	tuiHandler.SetProgram(program)

	syncContext, stopSync := context.WithCancel(ctx)
	syncDone := make(chan error, 1)
	go func() {
		syncDone <- syncer.Run(syncContext)
	}()
	go func() {
		if err := syncer.LoadMembers(syncContext, roomID); err != nil && syncContext.Err() == nil {
			logger.Warn("loading room members failed", "room_id", roomID, "error", err)
		}
	}()

	_, runErr := program.Run()
	stopSync()
	if err := <-syncDone; err != nil && !errors.Is(err, context.Canceled) {
		logger.Debug("sync loop stopped", "error", err)
	}
	syncer.Wait()

	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return runErr
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprint(os.Stderr, `roomview: terminal viewer for a Matrix room timeline.

Syncs one room and shows its events with the read marker, highlights
and day separators. Scrolling to the top loads older history; "r"
moves the read marker to the last row on screen.

Usage:
  roomview [flags]

Examples:
  # Save an access token for the account in the config
  roomview --config ~/.config/roomview/config.yaml --login

  # Open a room by alias
  ROOMVIEW_CONFIG=~/.config/roomview/config.yaml roomview --room '#general:example.org'

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
