package main

import (
	"github.com/bryanchriswhite/lswt/cmd/lswt/commands"
	"github.com/bryanchriswhite/lswt/internal/crash"
)

func main() {
	defer crash.Guard()
	commands.Execute()
}
