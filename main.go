package main

import "mediainspect/cmd"

func main() {
	cmd.Execute()
}
