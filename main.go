package main

import "inventory-api/cmd"

func main() {
	cmd.Execute()
}
