package main

import "github.com/zostay/aws-rotate-key/cmd"

func main() {
	cmd.Execute()
}
