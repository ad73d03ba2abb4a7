package main

import "abscomp/cmd"

func main() {
	cmd.Execute()
}
