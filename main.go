package main

import (
	"github.com/voletro/AgoraGo/internal/cli"
)

func main() {
	cli.Run()
}
