package main

import "github.com/kevin07696/billing-service/cmd"

func main() {
	cmd.Execute()
}
