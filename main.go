package main

import "github.com/framil09/prefeitura--sub000/cmd"

func main() {
	cmd.Execute()
}
