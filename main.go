package main

import "github.com/jsphweid/supernovae/cmd"

func main() {
	cmd.Execute()
}
