package main

import (
	api "Pulse"
)

func main() {
	api.Run()
}
