package main

import "github.com/eshaffer321/worklog-reconcile/cmd/worklog/cmd"

func main() {
	cmd.Execute()
}
