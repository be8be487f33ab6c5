package main

import (
	"flag"
	"fmt"
	"log/slog"
	devenv "netbank/dev/env"
	"netbank/lib/serviceutil"
	"os"
	"path/filepath"
)

// creates dev/.state with a template for the live test credentials
func create(recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll("dev/.state")
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	configPath, err := devenv.ResolvePath(filepath.Join("<dev_state>", "netbank_config.json5"))
	if err != nil {
		return err
	}
	_, err = os.Stat(configPath)
	if err == nil {
		slog.Info("config already exists", "path", configPath)
		return nil
	}

	err = os.WriteFile(configPath, []byte(devenv.NetBankTestConfigTemplate), 0600)
	if err != nil {
		return err
	}
	slog.Info("wrote config template, fill in credentials to run live tests", "path", configPath)
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "Delete the dev state before creating it again.")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		serviceutil.Fatal("failed to create dev environment", err)
	}
}
