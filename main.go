package main

import "userdesk/internal/delivery/cli"

func main() {
	cli.Execute()
}
