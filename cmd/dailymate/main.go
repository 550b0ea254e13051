package main

import "github.com/habibpatelhabib78-png/dailymate-app/cmd/dailymate/cmd"

func main() {
	cmd.Execute()
}
