package main

import "github.com/OldStager01/motortemp/cmd/trainer/cmd"

func main() {
	cmd.Execute()
}
