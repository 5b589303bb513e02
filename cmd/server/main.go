package main

import "kiwihr/internal/app/server"

func main() {
	server.Run()
}
