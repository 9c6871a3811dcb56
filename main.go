package main

import "github.com/mendonca-galvao/horaextra/cmd"

func main() {
	cmd.Execute()
}
