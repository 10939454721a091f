package main

import "github.com/iksnae/cursor-search/cmd"

func main() {
	cmd.Execute()
}
