package main

import "github.com/i4ybrid/trip-planner/cmd"

func main() {
	cmd.Execute()
}
