package main

import "github.com/ward/three-way-merge-finder/cmd"

func main() {
	cmd.Execute()
}
