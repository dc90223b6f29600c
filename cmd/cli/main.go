package main

import "github.com/MrJamesThe3rd/previsao/cmd/cli/internal/command"

func main() {
	command.Execute()
}
