package main

import "github.com/tomaskral/photo-engine/cmd"

func main() {
	cmd.Execute()
}
