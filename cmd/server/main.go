package main

import "ems/internal/app/server"

func main() {
	server.Run()
}
