package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// extensionEnv returns the resolved configuration as PTRADE_* variables, so
// that an extension reading its config from the environment agrees with ptrade.
func extensionEnv(cfg *Config) []string {
	vars := map[string]string{
		"session":        cfg.Session,
		"prices":         cfg.Prices,
		"price-selector": cfg.PriceSelector,
		"currency":       cfg.Currency,
		"balance":        cfg.Balance,
		"log-level":      cfg.LogLevel,
	}
	env := make([]string, 0, len(configKeys))
	for _, key := range configKeys {
		name := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		env = append(env, name+"="+vars[key])
	}
	return env
}

// RunExtension attempts to find and execute an external ptrade-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "ptrade-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		return false, 0
	}

	cfg, err := loadConfig(flag.CommandLine)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return true, 1
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// Pass global flags as environment variables
	cmd.Env = append(os.Environ(), extensionEnv(cfg)...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
