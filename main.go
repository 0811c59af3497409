package main

import "github.com/thatpix3l/photomerge/src/entrypoint"

func main() {
	entrypoint.Main()
}
