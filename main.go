package main

import "github.com/iksnae/newschat/cmd"

func main() {
	cmd.Execute()
}
