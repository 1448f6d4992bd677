package main

import "github.com/Giri-Aayush/sui-faucet-console/pkg/cli/commands"

func main() {
	commands.Execute()
}
