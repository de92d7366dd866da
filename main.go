package main

import "github.com/heona1231/2025HciProject/cmd"

func main() {
	cmd.Execute()
}
