package main

import "filesage/cmd"

func main() {
	cmd.Execute()
}
