package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"

	"github.com/kazanefu/phybkc/internal/config"
	"github.com/kazanefu/phybkc/internal/daemonstate"
	"github.com/kazanefu/phybkc/internal/hookengine"
	"github.com/kazanefu/phybkc/internal/siminput"
	"github.com/kazanefu/phybkc/internal/tray"
)

func main() {
	baseDir := resolveBaseDir()
	logFile, err := openStartupLog(baseDir)
	if err == nil {
		defer logFile.Close()
		log.SetOutput(logFile)
	}
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			msg := fmt.Sprintf("phybkcd crashed during startup: %v", r)
			log.Printf("%s\n%s", msg, stack)
			showFatalError(msg)
			os.Exit(1)
		}
	}()

	indexPath := filepath.Join(baseDir, "config.toml")
	if !fileExists(indexPath) {
		if cwd, err := os.Getwd(); err == nil {
			if fallback := filepath.Join(cwd, "config.toml"); fileExists(fallback) {
				indexPath = fallback
			}
		}
	}

	idx, err := config.LoadIndexFile(indexPath)
	if err != nil {
		showFatalError(fmt.Sprintf("Could not load %s: %v", indexPath, err))
		os.Exit(1)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	simulator := siminput.New()
	state := daemonstate.New()
	engine := hookengine.New(state, simulator)

	if err := state.LoadProfile(idx, idx.DefaultProfile.Default, simulator, engine); err != nil {
		showFatalError(fmt.Sprintf("Could not load default profile %q: %v", idx.DefaultProfile.Default, err))
		os.Exit(1)
		return
	}

	listener := hookengine.NewListener(engine)
	hookDone := make(chan error, 1)
	go func() {
		hookDone <- listener.Run(ctx)
	}()

	profileNames := make([]string, 0, len(idx.Profiles))
	for name := range idx.Profiles {
		profileNames = append(profileNames, name)
	}
	sort.Strings(profileNames)

	go tray.Run(profileNames, tray.Commands{
		Quit: cancel,
		ReloadCurrent: func() {
			name := state.ActiveProfileName()
			if err := state.LoadProfile(idx, name, simulator, engine); err != nil {
				log.Printf("phybkcd: reload of %q failed: %v", name, err)
			}
		},
		SwitchProfile: func(name string) {
			if err := state.LoadProfile(idx, name, simulator, engine); err != nil {
				log.Printf("phybkcd: switch to %q failed: %v", name, err)
			}
		},
	})

	if err := <-hookDone; err != nil {
		showFatalError(err.Error())
		os.Exit(1)
	}
}

func resolveBaseDir() string {
	if exe, err := os.Executable(); err == nil {
		if dir := filepath.Dir(exe); dir != "" {
			return dir
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

func openStartupLog(baseDir string) (*os.File, error) {
	path := filepath.Join(baseDir, "phybkcd.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Printf("Starting phybkcd from %s", baseDir)
	return file, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
