// This file is part of cdsplit.
//
// cdsplit is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// cdsplit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with cdsplit.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cdsplit/cdsplit/driver"
	"github.com/cdsplit/cdsplit/logger"
	"github.com/cdsplit/cdsplit/modalflag"
	"github.com/cdsplit/cdsplit/paths"
	"github.com/cdsplit/cdsplit/prefs"
	"github.com/cdsplit/cdsplit/settings"
	"github.com/cdsplit/cdsplit/statsview"
	"github.com/cdsplit/cdsplit/timer"
	"github.com/cdsplit/cdsplit/timer/console"
	"github.com/cdsplit/cdsplit/timer/livesplit"
	"github.com/cdsplit/cdsplit/timer/lso"
	"github.com/cdsplit/cdsplit/version"
)

const settingsFile = "settings.cue"

// the names of the host timers that can be selected with the -timer flag
const (
	timerLiveSplit = "livesplit"
	timerLSO       = "lso"
	timerConsole   = "console"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(launch(ctx, os.Args[1:], os.Stdout))
}

// launch parses the command line and runs the selected mode. Returns the
// status code for os.Exit()
func launch(ctx context.Context, args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "RESOLVE", "SETTINGS")
	md.AdditionalHelp(version.Banner())

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md, output)

	case "RESOLVE":
		err = resolve(ctx, md, output)

	case "SETTINGS":
		err = writeSettings(md, output)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md, err)
		return 20
	}

	return 0
}

// common flags for the RUN and RESOLVE modes
type common struct {
	prefs   *string
	log     *bool
	verbose *bool
	memviz  *string
}

func addCommon(md *modalflag.Modes) common {
	return common{
		prefs:   md.AddString("prefs", "", "override settings for this session. eg. \"start::false; palmtree_panic_1::false\""),
		log:     md.AddBool("log", false, "echo log to stderr"),
		verbose: md.AddBool("verbose", false, "log autosplitter state on every act change"),
		memviz:  md.AddString("memviz", "", "write graph of the autosplitter state to file on exit (DOT format)"),
	}
}

// apply the log and prefs flags. the returned function should be called once
// the settings have been created
func (c common) apply() func() {
	if *c.log {
		level := slog.LevelInfo
		if *c.verbose {
			level = slog.LevelDebug
		}
		logger.SetEcho(logger.NewEcho(os.Stderr, level))
	} else {
		logger.SetEcho(nil)
	}

	if *c.prefs == "" {
		return func() {}
	}

	prefs.PushCommandLineStack(*c.prefs)
	return func() {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "cdsplit", "unused settings from command line: %s", unused)
		}
	}
}

func (c common) dump(drv *driver.Driver) error {
	if *c.memviz == "" {
		return nil
	}

	f, err := os.Create(*c.memviz)
	if err != nil {
		return err
	}
	drv.DumpState(f)
	return f.Close()
}

func loadSettings() (*settings.Settings, error) {
	pth, err := paths.ResourcePath(settingsFile)
	if err != nil {
		return nil, err
	}
	return settings.NewSettings(pth)
}

func statsUsage() string {
	if !statsview.Available() {
		return "run stats server (not available in this build)"
	}
	return fmt.Sprintf("run stats server (%s)", statsview.Address)
}

func run(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	cmn := addCommon(md)
	host := md.AddString("timer", timerLiveSplit, "host timer: livesplit, lso, console")
	addr := md.AddString("addr", "", "address of the host timer (livesplit: connect to, lso: listen on)")
	rate := md.AddInt("rate", driver.DefaultRate, "autosplitter ticks per second")
	retry := md.AddDuration("retry", driver.DefaultRetry, "time between attempts to find the game")
	stats := md.AddBool("statsview", false, statsUsage())

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	done := cmn.apply()
	s, err := loadSettings()
	done()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if *stats {
		if !statsview.Available() {
			return fmt.Errorf("statsview not available in this build")
		}
		statsview.Launch(ctx, output)
	}

	var tm timer.Timer
	var display *console.Display

	switch strings.ToLower(*host) {
	case timerLiveSplit:
		a := *addr
		if a == "" {
			a = livesplit.DefaultAddress
		}
		c := livesplit.NewClient(a)
		defer c.Close()
		tm = c

	case timerLSO:
		srv := lso.NewServer()
		go func() {
			if err := srv.ListenAndServe(ctx, *addr); err != nil {
				logger.Log(logger.Allow, "cdsplit", err)
				cancel()
			}
		}()
		tm = srv

	case timerConsole:
		c := console.NewTimer(console.DefaultSegments)
		display, err = console.NewDisplay(c, os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		tm = c

	default:
		return fmt.Errorf("unknown host timer: %s", *host)
	}

	fmt.Fprintln(output, version.Banner())
	logger.Logf(logger.Allow, "cdsplit", "using %s timer", *host)

	drv := driver.NewDriver(tm, s, driver.Config{
		Rate:    *rate,
		Retry:   *retry,
		Verbose: *cmn.verbose,
	})

	if display != nil {
		go display.Run(ctx, cancel)
	}

	err = drv.Run(ctx)

	if derr := cmn.dump(drv); derr != nil && err == nil {
		err = derr
	}
	return err
}

func resolve(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	cmn := addCommon(md)
	wait := md.AddDuration("wait", 0, "time to wait for the game to start (zero waits forever)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	done := cmn.apply()
	s, err := loadSettings()
	done()
	if err != nil {
		return err
	}

	if *wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *wait)
		defer cancel()
	}

	// the timer is never used because the driver is never ticked
	drv := driver.NewDriver(console.NewTimer(console.DefaultSegments), s, driver.Config{
		Retry: time.Second,
	})

	if err := drv.Attach(ctx); err != nil {
		return err
	}
	defer drv.Detach()

	drv.Addresses().Write(output)

	return cmn.dump(drv)
}

func writeSettings(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	md.AdditionalHelp("writes the settings file, creating it with default values if it does not exist")

	show := md.AddBool("show", false, "print settings without writing the file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	s, err := loadSettings()
	if err != nil {
		return err
	}

	if !*show {
		if err := s.Save(); err != nil {
			return err
		}
		pth, _ := paths.ResourcePath(settingsFile)
		fmt.Fprintf(output, "settings written to %s\n\n", pth)
	}

	return s.Write(output)
}
