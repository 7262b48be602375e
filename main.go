package main

import "github.com/jsphweid/cuegrid/cmd"

func main() {
	cmd.Execute()
}
