// cmd/aerosetup/main.go - installer entry point for AeroMediaService.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/a-kowalenko/aeromedia-setup/pkg/config"
	"github.com/a-kowalenko/aeromedia-setup/pkg/guard"
	"github.com/a-kowalenko/aeromedia-setup/pkg/lifecycle"
	"github.com/a-kowalenko/aeromedia-setup/pkg/logging"
	"github.com/a-kowalenko/aeromedia-setup/pkg/manifest"
	"github.com/a-kowalenko/aeromedia-setup/pkg/progress"
	"github.com/a-kowalenko/aeromedia-setup/pkg/regentry"
	"github.com/a-kowalenko/aeromedia-setup/pkg/store"
	"github.com/a-kowalenko/aeromedia-setup/pkg/version"
)

func main() {
	enableANSIConsole()

	manifestPath := pflag.String("manifest", "", "Path to the install manifest. Defaults to manifest.yaml next to the installer.")
	installDir := pflag.String("install-dir", "", "Override the install directory.")
	silent := pflag.Bool("silent", false, "Run without console output or dialogs.")
	checkOnly := pflag.Bool("checkonly", false, "Report what would happen without installing.")
	force := pflag.Bool("force", false, "Reinstall or downgrade even when a matching or newer version is present.")
	showConfig := pflag.Bool("show-config", false, "Display the current configuration and exit.")
	saveConfig := pflag.Bool("save-config", false, "Write the effective configuration to the config file and exit.")
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
	if *installDir != "" {
		cfg.InstallRoot = *installDir
	}
	if *silent {
		cfg.Silent = true
	}
	if *checkOnly {
		cfg.CheckOnly = true
	}
	applyVerbosity(cfg, verbosity)

	if err := logging.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	if *showConfig {
		fmt.Printf("%+v\n", *cfg)
		os.Exit(0)
	}
	if *saveConfig {
		if err := config.SaveConfig(cfg); err != nil {
			fatal(cfg, fmt.Errorf("saving configuration: %w", err))
		}
		fmt.Printf("Configuration written to %s\n", config.ConfigPath)
		os.Exit(0)
	}

	admin, err := adminCheck()
	if err != nil {
		fatal(cfg, fmt.Errorf("checking privileges: %w", err))
	}
	if !admin {
		fatal(cfg, fmt.Errorf("administrative privileges are required to install"))
	}

	m, err := manifest.Load(resolveManifestPath(*manifestPath))
	if err != nil {
		fatal(cfg, err)
	}

	result, err := lifecycle.Install(lifecycle.InstallOptions{
		Manifest:          m,
		Config:            cfg,
		Store:             store.DefaultStore(),
		Guard:             guard.New(),
		Reporter:          progress.ForConfig(cfg.Silent),
		CheckOnly:         cfg.CheckOnly,
		Force:             *force,
		UninstallerSource: bundledUninstaller(),
	})
	if err != nil {
		fatal(cfg, err)
	}

	if !cfg.Silent && !result.Skipped {
		infoBox("Setup", fmt.Sprintf("%s %s was installed to %s.",
			m.DisplayName(), m.Version, result.InstallPath))
	}
	os.Exit(0)
}

// applyVerbosity maps repeated -v flags onto the log level, keeping the
// configured level when no flags were given.
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

// normalizeArgs translates the conventional Windows installer switches
// into their flag equivalents so "setup.exe /S" keeps working.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		switch {
		case a == "/S" || a == "/s":
			out = append(out, "--silent")
		case a == "/D":
			out = append(out, "--install-dir")
		case strings.HasPrefix(a, "/D="):
			out = append(out, "--install-dir="+strings.TrimPrefix(a, "/D="))
		default:
			out = append(out, a)
		}
	}
	return out
}

// resolveManifestPath defaults to manifest.yaml next to the installer
// binary, matching how the payload is packaged.
func resolveManifestPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	exe, err := os.Executable()
	if err != nil {
		return "manifest.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "manifest.yaml")
}

// bundledUninstaller returns the uninstaller binary shipped alongside
// the installer, or "" when none is packaged.
func bundledUninstaller() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(filepath.Dir(exe), regentry.UninstallerName)
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}

func fatal(cfg *config.Configuration, err error) {
	logging.Error("Install failed", "error", err)
	fmt.Fprintf(os.Stderr, "aerosetup: %v\n", err)
	if !cfg.Silent {
		errorBox("Setup failed", err.Error())
	}
	logging.Close()
	os.Exit(1)
}
