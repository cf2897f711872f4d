package main

import "github.com/Tiliavir/hourlog/cmd"

func main() {
	cmd.Execute()
}
