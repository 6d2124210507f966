package main

import "github.com/Alijeyrad/dentalcenter/cmd"

func main() {
	cmd.Execute()
}
