// README: CLI entry point.
package main

import "topptaxi/cmd/topptaxi/cmd"

func main() {
	cmd.Execute()
}
