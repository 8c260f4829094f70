package main

import "github.com/quarrydata/quarry/cmd"

func main() {
	cmd.Execute()
}
