/*
Copyright © 2025 tieubaoca
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/tieubaoca/docbricks-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional, everything it sets can come from config or flags
	godotenv.Load()
}
