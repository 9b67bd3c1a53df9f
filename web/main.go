package main

import (
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/df07/go-flat-raytracer/web/server"
)

func main() {
	_ = godotenv.Load(".env")

	// Parse command line flags
	defaultPort := 8080
	if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil && p > 0 {
		defaultPort = p
	}
	port := flag.Int("port", defaultPort, "Port to serve on (default from PORT)")
	flag.Parse()

	webServer := server.NewServer(*port)

	log.Printf("Flat Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
