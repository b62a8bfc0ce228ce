// FILE: lixenwraith/setting/cmd/setting/main.go
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("setting failed")
		os.Exit(1)
	}
}
