// cmd/uninstall/main.go - uninstaller entry point, staged into the
// install root as uninstall.exe.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/a-kowalenko/aeromedia-setup/pkg/config"
	"github.com/a-kowalenko/aeromedia-setup/pkg/guard"
	"github.com/a-kowalenko/aeromedia-setup/pkg/lifecycle"
	"github.com/a-kowalenko/aeromedia-setup/pkg/logging"
	"github.com/a-kowalenko/aeromedia-setup/pkg/progress"
	"github.com/a-kowalenko/aeromedia-setup/pkg/store"
	"github.com/a-kowalenko/aeromedia-setup/pkg/version"
)

const appName = "AeroMediaService"

func main() {
	enableANSIConsole()

	app := pflag.String("app", appName, "Registered application name to remove.")
	installDir := pflag.String("install-dir", "", "Override the install directory to remove.")
	silent := pflag.Bool("silent", false, "Run without console output or dialogs.")
	versionFlag := pflag.Bool("version", false, "Print the version and exit.")

	var verbosity int
	pflag.CountVarP(&verbosity, "verbose", "v", "Increase verbosity (e.g. -v, -vv, -vvv)")
	pflag.CommandLine.Parse(normalizeArgs(os.Args[1:]))

	if *versionFlag {
		if verbosity > 0 {
			version.PrintFull()
		} else {
			version.Print()
		}
		os.Exit(0)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *silent {
		cfg.Silent = true
	}
	applyVerbosity(cfg, verbosity)

	if err := logging.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	admin, err := adminCheck()
	if err != nil {
		fatal(cfg, fmt.Errorf("checking privileges: %w", err))
	}
	if !admin {
		fatal(cfg, fmt.Errorf("administrative privileges are required to uninstall"))
	}

	selfPath, _ := os.Executable()
	result, err := lifecycle.Uninstall(lifecycle.UninstallOptions{
		AppName:     *app,
		Config:      cfg,
		Store:       store.DefaultStore(),
		Guard:       guard.New(),
		Reporter:    progress.ForConfig(cfg.Silent),
		InstallPath: *installDir,
		SelfPath:    selfPath,
	})
	if err != nil {
		var cleanup *lifecycle.CleanupError
		if errors.As(err, &cleanup) && result != nil && result.FilesRemoved {
			// The payload is gone; leftover shortcuts or registry
			// values are warnings, not a failed uninstall.
			logging.Warn("Uninstall finished with warnings", "error", err)
			fmt.Fprintf(os.Stderr, "uninstall: warning: %v\n", err)
			os.Exit(0)
		}
		fatal(cfg, err)
	}

	if !cfg.Silent {
		if result.NothingFound {
			infoBox("Uninstall", fmt.Sprintf("%s is not installed.", *app))
		} else {
			infoBox("Uninstall", fmt.Sprintf("%s was removed.", *app))
		}
	}
	os.Exit(0)
}

func applyVerbosity(cfg *config.Configuration, verbosity int) {
	switch verbosity {
	case 0:
		// keep configured level
	case 1:
		cfg.LogLevel = "INFO"
		cfg.Verbose = true
	default:
		cfg.LogLevel = "DEBUG"
		cfg.Verbose = true
		cfg.Debug = true
	}
}

// normalizeArgs translates the conventional Windows uninstaller
// switches into their flag equivalents.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		switch a {
		case "/S", "/s":
			out = append(out, "--silent")
		default:
			out = append(out, a)
		}
	}
	return out
}

func fatal(cfg *config.Configuration, err error) {
	logging.Error("Uninstall failed", "error", err)
	fmt.Fprintf(os.Stderr, "uninstall: %v\n", err)
	if !cfg.Silent {
		errorBox("Uninstall failed", err.Error())
	}
	logging.Close()
	os.Exit(1)
}
