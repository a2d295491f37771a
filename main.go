package main

import "github.com/iksnae/voice-desk/cmd"

func main() {
	cmd.Execute()
}
