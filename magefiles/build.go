//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Tidies the module and builds the meshview binary into bin/.
func (Build) Binary() error {
	if err := goTidy(); err != nil {
		return err
	}
	fmt.Println("Build meshview...")
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/meshview", "."), withStream()); err != nil {
		return err
	}
	return nil
}

type Check mg.Namespace

// Runs go vet over every package.
func (Check) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}

// Runs the test suite with the race detector.
func (Check) Test() error {
	mg.Deps(Check.Vet)
	_, err := executeCmd("go", withArgs("test", "-race", "-count=1", "./..."), withStream())
	return err
}

type Run mg.Namespace

// Loads the model given by MODEL and prints its summary.
func (Run) Info() error {
	model, err := modelFromEnv()
	if err != nil {
		return err
	}
	_, err = executeCmd("go", withArgs("run", ".", "info", "--textures", model), withStream())
	return err
}

// Watches the model given by MODEL and reloads it on change.
func (Run) Watch() error {
	model, err := modelFromEnv()
	if err != nil {
		return err
	}
	_, err = executeCmd("go", withArgs("run", ".", "watch", model), withStream())
	return err
}
