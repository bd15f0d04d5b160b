//go:build mage
// +build mage

package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var Default = Build

func BuildGoveeBLE(ctx context.Context) error {
	fmt.Println("Building goveeble...")
	output := envOrDefault("GOVEEBLE_BINARY", "goveeble")
	if runtime.GOOS == "windows" {
		output += ".exe"
	}
	return sh.RunV("go", "build", "-o", output, "./cmd/goveeble")
}

func BuildGoveeFrame(ctx context.Context) error {
	fmt.Println("Building goveeframe...")
	output := "goveeframe"
	if runtime.GOOS == "windows" {
		output += ".exe"
	}
	return sh.RunV("go", "build", "-o", output, "./cmd/goveeframe")
}

func Build(ctx context.Context) error {
	fmt.Println("Building...")
	mg.CtxDeps(ctx, BuildGoveeFrame, BuildGoveeBLE)
	return nil
}

func Test(ctx context.Context) error {
	fmt.Println("Testing...")
	return sh.RunV("go", "test", "-race", "./...")
}

func envOrDefault(key, value string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return value
}
