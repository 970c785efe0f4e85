/*
meshview loads Wavefront OBJ models with their MTL materials, normalizes
them and packages them into GPU-ready vertex and index buffers.
*/
package main

import (
	"os"

	"github.com/spaghettifunk/meshview/engine/core"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		core.LogError(err.Error())
		os.Exit(1)
	}
}
