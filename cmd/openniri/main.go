package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/openniri/openniri/internal/autostart"
	"github.com/openniri/openniri/internal/config"
	"github.com/openniri/openniri/internal/daemon"
	"github.com/openniri/openniri/internal/ipc"
	"github.com/openniri/openniri/internal/platform"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDaemon())
	case "init":
		os.Exit(runInit(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "autostart":
		os.Exit(runAutostart(os.Args[2:]))
	case "stop":
		os.Exit(runSimple("stop", os.Args[2:]))
	case "focus-left", "focus-right", "focus-up", "focus-down",
		"move-column-left", "move-column-right",
		"focus-monitor-left", "focus-monitor-right",
		"move-window-to-monitor-left", "move-window-to-monitor-right",
		"close-window", "toggle-floating", "toggle-fullscreen",
		"refresh", "reload":
		os.Exit(runSimple(ipcCmdName(os.Args[1]), os.Args[2:]))
	case "scroll":
		os.Exit(runDelta("scroll", os.Args[2:]))
	case "resize":
		os.Exit(runDelta("resize", os.Args[2:]))
	case "set-column-width":
		os.Exit(runSetColumnWidth(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: openniri <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                             Launch the daemon (foreground)")
	fmt.Fprintln(w, "  stop                            Ask a running daemon to shut down")
	fmt.Fprintln(w, "  status                          Show daemon status")
	fmt.Fprintln(w, "  init [-o path] [--force]        Write a default config file")
	fmt.Fprintln(w, "  autostart enable|disable        Register/unregister a startup entry")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  focus-left|right|up|down        Move focus within the workspace")
	fmt.Fprintln(w, "  move-column-left|right          Swap the focused column")
	fmt.Fprintln(w, "  scroll <px>                     Scroll the workspace viewport")
	fmt.Fprintln(w, "  resize <px>                     Resize the focused column")
	fmt.Fprintln(w, "  set-column-width <mode>         one_third|half|two_thirds|equalize")
	fmt.Fprintln(w, "  focus-monitor-left|right        Move focus to an adjacent monitor")
	fmt.Fprintln(w, "  move-window-to-monitor-left|right   Move the focused window across monitors")
	fmt.Fprintln(w, "  close-window                    Close the focused window")
	fmt.Fprintln(w, "  toggle-floating                 Toggle the focused window's floating state")
	fmt.Fprintln(w, "  toggle-fullscreen               Toggle the focused window's fullscreen state")
	fmt.Fprintln(w, "  refresh                         Re-enumerate windows and monitors")
	fmt.Fprintln(w, "  reload                          Reload configuration and hotkeys")
}

func ipcCmdName(flagName string) string {
	out := make([]byte, 0, len(flagName))
	for i := 0; i < len(flagName); i++ {
		if flagName[i] == '-' {
			out = append(out, '_')
			continue
		}
		out = append(out, flagName[i])
	}
	return string(out)
}

func runSimple(cmd string, args []string) int {
	if len(args) != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", cmd)
		return 2
	}
	client := ipc.NewClient()
	if err := client.Simple(cmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runDelta(cmd string, args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: openniri %s <px>\n", cmd)
		return 2
	}
	var deltaPx int
	if _, err := fmt.Sscanf(args[0], "%d", &deltaPx); err != nil {
		fmt.Fprintf(os.Stderr, "invalid delta %q\n", args[0])
		return 2
	}
	client := ipc.NewClient()
	var err error
	if cmd == "scroll" {
		err = client.Scroll(deltaPx)
	} else {
		err = client.Resize(deltaPx)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runSetColumnWidth(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: openniri set-column-width <one_third|half|two_thirds|equalize>")
		return 2
	}
	client := ipc.NewClient()
	if err := client.SetColumnWidth(args[0]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	client := ipc.NewClient()
	var status struct {
		Paused         bool   `json:"paused"`
		MonitorCount   int    `json:"monitor_count"`
		WindowCount    int    `json:"window_count"`
		FocusedMonitor int64  `json:"focused_monitor"`
		ConfigPath     string `json:"config_path"`
	}
	if err := client.QueryStatus(&status); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("paused:          %v\n", status.Paused)
	fmt.Printf("monitor_count:   %d\n", status.MonitorCount)
	fmt.Printf("window_count:    %d\n", status.WindowCount)
	fmt.Printf("focused_monitor: %d\n", status.FocusedMonitor)
	fmt.Printf("config_path:     %s\n", status.ConfigPath)
	return 0
}

func runInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	outPath := fs.String("o", "", "Path to write the config file (default: the first config search path)")
	force := fs.Bool("force", false, "Overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path := *outPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if !*force {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "%s already exists; pass --force to overwrite\n", path)
			return 1
		}
	}

	if err := config.Save(config.Default(), path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("wrote default config to %s\n", path)
	return 0
}

func runAutostart(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: openniri autostart enable|disable")
		return 2
	}
	exe, err := os.Executable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	switch args[0] {
	case "enable":
		if err := autostart.Enable(exe); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	case "disable":
		if err := autostart.Disable(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	default:
		fmt.Fprintln(os.Stderr, "Usage: openniri autostart enable|disable")
		return 2
	}
	return 0
}

func runDaemon() int {
	level := slog.LevelInfo
	if cfg, _, err := config.Load(); err == nil {
		switch cfg.Behavior.LogLevel {
		case config.LogLevelTrace, config.LogLevelDebug:
			level = slog.LevelDebug
		case config.LogLevelWarn:
			level = slog.LevelWarn
		case config.LogLevelError:
			level = slog.LevelError
		}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	backend := platform.NewBackend()
	d := daemon.NewDaemon(backend, logger)
	d.SetIPCServer(ipc.NewServer(d, logger))

	if err := d.Bootstrap(); err != nil {
		logger.Error("bootstrap failed", "error", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received interrupt, shutting down")
		cancel()
	}()

	logger.Info("openniri daemon started")
	if err := d.Run(ctx); err != nil {
		logger.Error("daemon exited with error", "error", err)
		return 1
	}
	return 0
}
