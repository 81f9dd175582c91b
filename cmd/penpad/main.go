// Command penpad replays recorded pen sessions into a penpad surface.
//
// Usage:
//
//	penpad replay session.yaml --out session.png
//	penpad config --config penpad.yaml
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
