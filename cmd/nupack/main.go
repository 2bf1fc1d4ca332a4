package main

import "github.com/oshokin/nupack/cmd/nupack/cmd"

func main() {
	cmd.Execute()
}
