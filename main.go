package main

import "github.com/iksnae/ytchat/cmd"

func main() {
	cmd.Execute()
}
