package main

import (
	"rhythmbox/cmd"
)

func main() {
	cmd.Execute()
}
