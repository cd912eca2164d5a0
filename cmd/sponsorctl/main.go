package main

import "github.com/sui-sponsor/client-sdk-go/cmd/sponsorctl/cmd"

func main() {
	cmd.Execute()
}
