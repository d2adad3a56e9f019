package main

import "github.com/roaldarbol/boris-clip/cmd"

func main() {
	cmd.Execute()
}
