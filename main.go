package main

import "github.com/Tiliavir/shiftsync/cmd"

func main() {
	cmd.Execute()
}
