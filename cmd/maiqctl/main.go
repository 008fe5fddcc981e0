// Package main запускает maiqctl - консольную утилиту для работы с расписанием.
package main

import (
	"fmt"
	"os"

	"maiq/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
