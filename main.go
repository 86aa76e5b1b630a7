package main

import "github.com/dt-pm-tools/sheet-sync/cmd"

func main() {
	cmd.Execute()
}
