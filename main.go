package main

import "github.com/graphsteg/graphsteg/cmd"

func main() {
	cmd.Execute()
}
