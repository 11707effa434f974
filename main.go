package main

import "github.com/diffsquare/diffsquare/cmd/diffsquare"

func main() {
	diffsquare.Execute()
}
