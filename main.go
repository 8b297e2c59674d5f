package main

import "github.com/nathanhack/memprobe/cmd"

func main() {
	cmd.Execute()
}
